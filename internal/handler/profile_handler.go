package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hitoshi/minifeed/internal/middleware"
	"github.com/hitoshi/minifeed/internal/model"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, auth0ID string) (*model.User, error)
	UpdateProfile(ctx context.Context, auth0ID, field, value string) (*model.User, error)
}

// ProfileHandler はプロフィール関連のHTTPハンドラー。
type ProfileHandler struct {
	service  ProfileServiceInterface
	renderer PageRenderer
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface, renderer PageRenderer) *ProfileHandler {
	return &ProfileHandler{
		service:  service,
		renderer: renderer,
	}
}

// Profile は自分のプロフィールページを表示する。
// まだ投稿しておらずユーザー行が無い場合は、クレームの内容を表示する。
// GET /profile
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	u, err := h.service.GetProfile(r.Context(), claims.Subject)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUserNotFound {
			// 未プロビジョニングのユーザーにはIdPクレームをそのまま表示する
			u = userFromClaims(claims)
		} else {
			handleServiceError(w, err)
			return
		}
	}

	renderPage(h.renderer, w, http.StatusOK, "profile.html", map[string]any{
		"LoggedIn": true,
		"User":     u,
	})
}

// profileUpdateRequest はプロフィール更新リクエストのボディ。
type profileUpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// profileResponse はプロフィールのJSONレスポンス。
type profileResponse struct {
	Auth0ID    string  `json:"auth0_id"`
	GivenName  string  `json:"given_name"`
	FamilyName string  `json:"family_name"`
	Email      string  `json:"email"`
	Picture    *string `json:"picture"`
}

// UpdateProfile は許可された単一フィールドを更新し、更新後のプロフィールを返す。
// JSONボディとフォーム送信の両方を受け付ける。
// POST /profile/update
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req profileUpdateRequest
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data", http.StatusBadRequest)
			return
		}
		req.Field = r.PostForm.Get("field")
		req.Value = r.PostForm.Get("value")
	}

	u, err := h.service.UpdateProfile(r.Context(), claims.Subject, req.Field, req.Value)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profileResponse{
		Auth0ID:    u.Auth0ID,
		GivenName:  u.GivenName,
		FamilyName: u.FamilyName,
		Email:      u.Email,
		Picture:    u.Picture,
	})
}

// userFromClaims はIdPクレームから表示用のユーザーを組み立てる。
func userFromClaims(claims model.Claims) *model.User {
	u := &model.User{
		Auth0ID:    claims.Subject,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		Email:      claims.Email,
	}
	if claims.Picture != "" {
		picture := claims.Picture
		u.Picture = &picture
	}
	return u
}
