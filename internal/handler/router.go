package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/minifeed/internal/metrics"
	"github.com/hitoshi/minifeed/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder middleware.SessionFinder
	Provisioner   middleware.UserProvisioner
	RateLimiter   *middleware.RateLimiter
	Logger        *slog.Logger

	// メトリクス
	MetricsCollector *metrics.Collector
	MetricsGatherer  prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	PostService    PostServiceInterface
	ProfileService ProfileServiceInterface

	// ビュー
	Renderer PageRenderer
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Metrics → Logging → Session（必須/任意） → RateLimit
//
// 認証ルート（/auth/*）と運用エンドポイント（/health、/metrics）は
// セッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.MetricsCollector != nil {
		r.Use(metrics.NewHTTPMiddleware(deps.MetricsCollector))
	}
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	pageHandler := NewPageHandler(deps.Renderer)
	postHandler := NewPostHandler(deps.PostService, deps.Renderer)
	profileHandler := NewProfileHandler(deps.ProfileService, deps.Renderer)

	// --- 認証不要のルート ---

	// 認証ルート（OIDCフロー）
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
		r.Get("/logout", authHandler.Logout)
	})

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheusスクレイプ
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- 認証任意のルート ---
	// セッションがあればログイン状態で表示する
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewOptionalSessionMiddleware(deps.SessionFinder))

		r.Get("/", pageHandler.Home)
		r.Get("/create", pageHandler.CreateLanding)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// POST /create - 投稿作成（ユーザー行のプロビジョニング＋作成専用レート制限を追加）
		r.With(
			deps.RateLimiter.PostCreateMiddleware(),
			middleware.NewProvisionMiddleware(deps.Provisioner),
		).Post("/create", postHandler.CreatePost)

		r.Get("/create-post", pageHandler.CreatePostForm)
		r.Get("/feed", postHandler.Feed)
		r.Delete("/delete/{id}", postHandler.DeletePost)

		r.Get("/profile", profileHandler.Profile)
		r.Post("/profile/update", profileHandler.UpdateProfile)
	})

	return r
}
