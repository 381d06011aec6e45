package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hitoshi/minifeed/internal/model"
)

// Auth0Config はAuth0 OIDCプロバイダーの設定。
// IssuerURLはテナントのベースURL（例: "https://dev-xxxx.us.auth0.com"）。
type Auth0Config struct {
	ClientID     string
	ClientSecret string
	IssuerURL    string
	RedirectURL  string

	// テスト用にオーバーライド可能なURL
	AuthorizeURL string
	TokenURL     string
	UserInfoURL  string
	LogoutURL    string
}

// Auth0Provider はAuth0のOIDC認可コードフローによる認証を提供する。
// トークンの暗号検証は行わず、issuerのuserinfoエンドポイントをクレームの出典とする。
type Auth0Provider struct {
	config Auth0Config
}

// NewAuth0Provider はAuth0Providerを生成する。
// エンドポイントURLが未指定の場合はissuerの標準パスから導出する。
func NewAuth0Provider(config Auth0Config) *Auth0Provider {
	issuer := strings.TrimSuffix(config.IssuerURL, "/")
	if config.AuthorizeURL == "" {
		config.AuthorizeURL = issuer + "/authorize"
	}
	if config.TokenURL == "" {
		config.TokenURL = issuer + "/oauth/token"
	}
	if config.UserInfoURL == "" {
		config.UserInfoURL = issuer + "/userinfo"
	}
	if config.LogoutURL == "" {
		config.LogoutURL = issuer + "/v2/logout"
	}
	return &Auth0Provider{config: config}
}

// GetLoginURL はAuth0の認可URLを生成する。
// スコープにはopenid, profile, emailを含む。
func (p *Auth0Provider) GetLoginURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURL},
		"response_type": {"code"},
		"scope":         {"openid profile email"},
		"state":         {state},
	}
	return p.config.AuthorizeURL + "?" + params.Encode()
}

// GetLogoutURL はAuth0のログアウトURLを生成する。
// ログアウト後はreturnToにリダイレクトされる。
func (p *Auth0Provider) GetLogoutURL(returnTo string) string {
	params := url.Values{
		"client_id": {p.config.ClientID},
		"returnTo":  {returnTo},
	}
	return p.config.LogoutURL + "?" + params.Encode()
}

// auth0TokenResponse はAuth0のトークンエンドポイントのレスポンス。
type auth0TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	IDToken     string `json:"id_token"`
}

// auth0UserInfo はAuth0のuserinfoエンドポイントのレスポンス。
type auth0UserInfo struct {
	Sub        string `json:"sub"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
}

// ExchangeCode は認可コードをアクセストークンに交換し、ユーザークレームを取得する。
func (p *Auth0Provider) ExchangeCode(ctx context.Context, code string) (*model.Claims, error) {
	// 1. 認可コードをアクセストークンに交換
	tokenResp, err := p.exchangeToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	// 2. アクセストークンでuserinfoを取得
	userInfo, err := p.fetchUserInfo(ctx, tokenResp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	return &model.Claims{
		Subject:    userInfo.Sub,
		GivenName:  userInfo.GivenName,
		FamilyName: userInfo.FamilyName,
		Email:      userInfo.Email,
		Picture:    userInfo.Picture,
	}, nil
}

// exchangeToken は認可コードをアクセストークンに交換する。
func (p *Auth0Provider) exchangeToken(ctx context.Context, code string) (*auth0TokenResponse, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp auth0TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in response")
	}

	return &tokenResp, nil
}

// fetchUserInfo はアクセストークンでAuth0のユーザークレームを取得する。
func (p *Auth0Provider) fetchUserInfo(ctx context.Context, accessToken string) (*auth0UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user info request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo auth0UserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse user info response: %w", err)
	}

	if userInfo.Sub == "" {
		return nil, fmt.Errorf("empty sub in user info response")
	}

	return &userInfo, nil
}

// compile-time interface check
var _ OIDCProvider = (*Auth0Provider)(nil)
