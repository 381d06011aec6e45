// Package auth はOIDC認証フローとセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/minifeed/internal/model"
	"github.com/hitoshi/minifeed/internal/repository"
)

// OIDCProvider はOIDC認証プロバイダーのインターフェース。
// 具象プロバイダー（Auth0等）を差し替え・モック可能にするための抽象化。
type OIDCProvider interface {
	// GetLoginURL は認可URLを生成する。
	GetLoginURL(state string) string
	// GetLogoutURL はIdP側セッションも終了するログアウトURLを生成する。
	GetLogoutURL(returnTo string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザークレームを取得する。
	ExchangeCode(ctx context.Context, code string) (*model.Claims, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
// ユーザー行の作成はここでは行わない。ローカルユーザーは初回の投稿作成時に
// 遅延プロビジョニングされる。
type Service struct {
	provider    OIDCProvider
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(provider OIDCProvider, sessionRepo repository.SessionRepository, config ServiceConfig) *Service {
	return &Service{
		provider:    provider,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// GetLoginURL はOIDC認可URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.provider.GetLoginURL(state)
}

// GetLogoutURL はIdPのログアウトURLを生成する。
func (s *Service) GetLogoutURL(returnTo string) string {
	return s.provider.GetLogoutURL(returnTo)
}

// HandleCallback はOIDCコールバックを処理し、クレームを保持するセッションを発行する。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	claims, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oidc code: %w", err)
	}

	session, err := s.createSession(ctx, *claims)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("subject", claims.Subject),
	)

	return session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, claims model.Claims) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		Claims:    claims,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
