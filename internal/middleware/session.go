// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/minifeed/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// claimsContextKey はリクエストコンテキストに認証済みクレームを格納するためのキー。
var claimsContextKey = contextKey("claims")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// resolveClaims はCookieのセッションIDからクレームを解決する。
// セッションが無い・無効・期限切れの場合はnilを返す。
func resolveClaims(r *http.Request, sessionFinder SessionFinder) *model.Claims {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := sessionFinder.FindByID(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("failed to find session",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if session == nil {
		return nil
	}

	claims := session.Claims
	return &claims
}

// NewSessionMiddleware は認証必須ルート用のミドルウェアを返す。
// HTTP Only Cookieからセッションを読み取り、認証済みクレームを
// リクエストコンテキストに注入する。未認証の場合、ブラウザナビゲーション
// （GET）はホームへリダイレクトし、それ以外は401を返す。
// データベースへの問い合わせは認証確認の後でのみ発生する。
func NewSessionMiddleware(sessionFinder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := resolveClaims(r, sessionFinder)
			if claims == nil {
				if r.Method == http.MethodGet {
					http.Redirect(w, r, "/", http.StatusFound)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := ContextWithClaims(r.Context(), *claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewOptionalSessionMiddleware は認証任意ルート用のミドルウェアを返す。
// 有効なセッションがあればクレームをコンテキストに注入し、
// 無ければそのまま次のハンドラーへ進む。
func NewOptionalSessionMiddleware(sessionFinder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims := resolveClaims(r, sessionFinder); claims != nil {
				r = r.WithContext(ContextWithClaims(r.Context(), *claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext はリクエストコンテキストから認証済みクレームを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func ClaimsFromContext(ctx context.Context) (model.Claims, error) {
	claims, ok := ctx.Value(claimsContextKey).(model.Claims)
	if !ok || claims.Subject == "" {
		return model.Claims{}, fmt.Errorf("claims not found in context")
	}
	return claims, nil
}

// ContextWithClaims はコンテキストに認証済みクレームを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithClaims(ctx context.Context, claims model.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}
