package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/minifeed/internal/model"
)

// UserProvisioner はローカルユーザー行の存在保証に必要なインターフェース。
// user.Serviceの部分集合として定義する。
type UserProvisioner interface {
	EnsureUser(ctx context.Context, claims model.Claims) error
}

// NewProvisionMiddleware は認証済みクレームに対応するローカルユーザー行の
// 存在を保証するミドルウェアを返す。ユーザー行を必要とする書き込み操作の
// ルートにのみ適用する。セッションミドルウェアの後に配置すること。
func NewProvisionMiddleware(provisioner UserProvisioner) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := ClaimsFromContext(r.Context())
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if err := provisioner.EnsureUser(r.Context(), claims); err != nil {
				slog.Error("failed to provision user",
					slog.String("auth0_id", claims.Subject),
					slog.String("error", err.Error()),
				)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
