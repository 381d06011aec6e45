package post

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/minifeed/internal/model"
)

// mockPostRepo はテスト用の投稿リポジトリモック。
type mockPostRepo struct {
	createFunc     func(ctx context.Context, post *model.Post) error
	findByIDFunc   func(ctx context.Context, id int64) (*model.Post, error)
	listFeedFunc   func(ctx context.Context) ([]model.FeedEntry, error)
	deleteByIDFunc func(ctx context.Context, id int64) error
}

func (m *mockPostRepo) Create(ctx context.Context, post *model.Post) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, post)
	}
	return nil
}

func (m *mockPostRepo) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPostRepo) ListFeed(ctx context.Context) ([]model.FeedEntry, error) {
	if m.listFeedFunc != nil {
		return m.listFeedFunc(ctx)
	}
	return nil, nil
}

func (m *mockPostRepo) DeleteByID(ctx context.Context, id int64) error {
	if m.deleteByIDFunc != nil {
		return m.deleteByIDFunc(ctx, id)
	}
	return nil
}

// mockMetrics はテスト用のメトリクスレコーダー。
type mockMetrics struct {
	created int
	deleted int
	renders int
}

func (m *mockMetrics) IncPostsCreated() { m.created++ }
func (m *mockMetrics) IncPostsDeleted() { m.deleted++ }
func (m *mockMetrics) IncFeedRenders()  { m.renders++ }

func TestCreatePost(t *testing.T) {
	repo := &mockPostRepo{
		createFunc: func(ctx context.Context, post *model.Post) error {
			post.ID = 42
			post.CreatedAt = time.Now()
			return nil
		},
	}
	metrics := &mockMetrics{}
	service := NewService(repo, metrics)

	post, err := service.CreatePost(context.Background(), "auth0|user123", "タイトル", "本文")
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	if post.ID != 42 {
		t.Errorf("post ID = %d, want 42", post.ID)
	}
	if post.Auth0ID != "auth0|user123" {
		t.Errorf("post author = %q, want %q", post.Auth0ID, "auth0|user123")
	}
	if post.Title != "タイトル" {
		t.Errorf("post title = %q, want %q", post.Title, "タイトル")
	}
	if metrics.created != 1 {
		t.Errorf("created metric = %d, want 1", metrics.created)
	}
}

func TestCreatePost_EmptyTitleAndContent(t *testing.T) {
	var saved *model.Post
	repo := &mockPostRepo{
		createFunc: func(ctx context.Context, post *model.Post) error {
			saved = post
			return nil
		},
	}
	service := NewService(repo, nil)

	// 空のタイトル・本文も拒否せずそのまま保存する
	if _, err := service.CreatePost(context.Background(), "auth0|user123", "", ""); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if saved == nil {
		t.Fatal("post should be saved")
	}
	if saved.Title != "" || saved.Content != "" {
		t.Errorf("empty values should be preserved, got title=%q content=%q", saved.Title, saved.Content)
	}
}

func TestDeletePost_Owner(t *testing.T) {
	var deletedID int64
	repo := &mockPostRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Post, error) {
			return &model.Post{ID: id, Auth0ID: "auth0|owner"}, nil
		},
		deleteByIDFunc: func(ctx context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}
	metrics := &mockMetrics{}
	service := NewService(repo, metrics)

	if err := service.DeletePost(context.Background(), 7, "auth0|owner"); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}
	if deletedID != 7 {
		t.Errorf("deleted post ID = %d, want 7", deletedID)
	}
	if metrics.deleted != 1 {
		t.Errorf("deleted metric = %d, want 1", metrics.deleted)
	}
}

func TestDeletePost_NotOwner(t *testing.T) {
	deleteCalled := false
	repo := &mockPostRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Post, error) {
			return &model.Post{ID: id, Auth0ID: "auth0|owner"}, nil
		},
		deleteByIDFunc: func(ctx context.Context, id int64) error {
			deleteCalled = true
			return nil
		},
	}
	service := NewService(repo, nil)

	err := service.DeletePost(context.Background(), 7, "auth0|other")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodePostForbidden {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodePostForbidden)
	}
	if deleteCalled {
		t.Error("delete should not be called for non-owner")
	}
}

func TestDeletePost_NotFound(t *testing.T) {
	deleteCalled := false
	repo := &mockPostRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Post, error) {
			return nil, nil
		},
		deleteByIDFunc: func(ctx context.Context, id int64) error {
			deleteCalled = true
			return nil
		},
	}
	service := NewService(repo, nil)

	err := service.DeletePost(context.Background(), 999, "auth0|anyone")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	// 存在しない投稿はNOT_FOUND。FORBIDDENより先に判定される
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodePostNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodePostNotFound)
	}
	if deleteCalled {
		t.Error("delete should not be called for missing post")
	}
}

func TestDeletePost_RepoError(t *testing.T) {
	repo := &mockPostRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Post, error) {
			return nil, errors.New("db down")
		},
	}
	service := NewService(repo, nil)

	err := service.DeletePost(context.Background(), 7, "auth0|anyone")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("infrastructure error should not be APIError, got code %q", apiErr.Code)
	}
}

func TestListFeed(t *testing.T) {
	want := []model.FeedEntry{
		{Post: model.Post{ID: 2, Title: "新しい"}, AuthorGivenName: "太郎"},
		{Post: model.Post{ID: 1, Title: "古い"}, AuthorGivenName: "花子"},
	}
	repo := &mockPostRepo{
		listFeedFunc: func(ctx context.Context) ([]model.FeedEntry, error) {
			return want, nil
		},
	}
	service := NewService(repo, nil)

	got, err := service.ListFeed(context.Background())
	if err != nil {
		t.Fatalf("ListFeed() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("ListFeed() = %+v, want %+v", got, want)
	}
}
