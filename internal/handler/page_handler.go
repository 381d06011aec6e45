package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/minifeed/internal/middleware"
)

// PageRenderer はHTMLページのレンダリングインターフェース。
// view.Rendererの部分集合として定義する。
type PageRenderer interface {
	Render(w http.ResponseWriter, status int, page string, data any) error
}

// PageHandler はサーバーレンダリングされる静的寄りのページのハンドラー。
type PageHandler struct {
	renderer PageRenderer
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(renderer PageRenderer) *PageHandler {
	return &PageHandler{renderer: renderer}
}

// renderPage はページをレンダリングする。失敗時は500を返す。
func renderPage(renderer PageRenderer, w http.ResponseWriter, status int, page string, data any) {
	if err := renderer.Render(w, status, page, data); err != nil {
		slog.Error("failed to render page",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// Home はトップページを表示する。
// ログイン済みのユーザーはフィードへリダイレクトする。
// GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.ClaimsFromContext(r.Context()); err == nil {
		http.Redirect(w, r, "/feed", http.StatusFound)
		return
	}
	renderPage(h.renderer, w, http.StatusOK, "home.html", map[string]any{
		"LoggedIn": false,
	})
}

// CreateLanding は投稿開始の案内ページを表示する。
// 未ログインのユーザーはトップページへリダイレクトする。
// GET /create
func (h *PageHandler) CreateLanding(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	renderPage(h.renderer, w, http.StatusOK, "create.html", map[string]any{
		"LoggedIn":  true,
		"GivenName": claims.GivenName,
	})
}

// CreatePostForm は投稿作成フォームを表示する。認証必須。
// GET /create-post
func (h *PageHandler) CreatePostForm(w http.ResponseWriter, r *http.Request) {
	renderPage(h.renderer, w, http.StatusOK, "create_post.html", map[string]any{
		"LoggedIn": true,
	})
}
