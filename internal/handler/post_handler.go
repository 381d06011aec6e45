package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/minifeed/internal/middleware"
	"github.com/hitoshi/minifeed/internal/model"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	CreatePost(ctx context.Context, authorID, title, content string) (*model.Post, error)
	ListFeed(ctx context.Context) ([]model.FeedEntry, error)
	DeletePost(ctx context.Context, postID int64, requesterID string) error
}

// PostHandler は投稿関連のHTTPハンドラー。
type PostHandler struct {
	service  PostServiceInterface
	renderer PageRenderer
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface, renderer PageRenderer) *PostHandler {
	return &PostHandler{
		service:  service,
		renderer: renderer,
	}
}

// CreatePost はフォーム送信から投稿を作成し、フィードへリダイレクトする。
// 送信された値は検証や整形をせずそのまま保存する。
// POST /create
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	title := r.PostForm.Get("title")
	content := r.PostForm.Get("content")

	if _, err := h.service.CreatePost(r.Context(), claims.Subject, title, content); err != nil {
		handleServiceError(w, err)
		return
	}

	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

// Feed は全ユーザーの投稿を新しい順に表示する。
// GET /feed
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	entries, err := h.service.ListFeed(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	renderPage(h.renderer, w, http.StatusOK, "feed.html", map[string]any{
		"LoggedIn": true,
		"ViewerID": claims.Subject,
		"Entries":  entries,
	})
}

// DeletePost は自分の投稿を削除する。
// DELETE /delete/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	idParam := chi.URLParam(r, "id")
	postID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		// 数値でないIDは存在しない投稿として扱う
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewPostNotFoundError(0))
		return
	}

	if err := h.service.DeletePost(r.Context(), postID, claims.Subject); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Post deleted successfully"))
}
