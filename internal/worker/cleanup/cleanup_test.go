package cleanup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hitoshi/minifeed/internal/model"
)

// mockSessionRepo はテスト用のセッションリポジトリモック。
type mockSessionRepo struct {
	deleteExpiredFunc func(ctx context.Context) (int64, error)
	calls             int
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error { return nil }
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return nil, nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error { return nil }

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	m.calls++
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx)
	}
	return 0, nil
}

// mockMetrics はテスト用のメトリクスレコーダー。
type mockMetrics struct {
	deleted int64
}

func (m *mockMetrics) AddSessionsDeleted(count int64) { m.deleted += count }

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRun_DeletesExpiredSessions(t *testing.T) {
	repo := &mockSessionRepo{
		deleteExpiredFunc: func(ctx context.Context) (int64, error) {
			return 3, nil
		},
	}
	metrics := &mockMetrics{}
	job := NewCleanupJob(repo, testLogger(), metrics)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if repo.calls != 1 {
		t.Errorf("DeleteExpired called %d times, want 1", repo.calls)
	}
	if metrics.deleted != 3 {
		t.Errorf("metrics deleted = %d, want 3", metrics.deleted)
	}
}

func TestRun_NothingToDelete(t *testing.T) {
	repo := &mockSessionRepo{}
	job := NewCleanupJob(repo, testLogger(), nil)

	// 削除対象が無くてもエラーにならない
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRun_RepoError(t *testing.T) {
	repo := &mockSessionRepo{
		deleteExpiredFunc: func(ctx context.Context) (int64, error) {
			return 0, errors.New("db down")
		},
	}
	job := NewCleanupJob(repo, testLogger(), nil)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestRunLoop_StopsOnContextCancel(t *testing.T) {
	repo := &mockSessionRepo{}
	job := NewCleanupJob(repo, testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		job.RunLoop(ctx, time.Hour)
		close(done)
	}()

	// 起動直後の初回実行を待ってからキャンセル
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunLoop did not stop after context cancellation")
	}

	if repo.calls < 1 {
		t.Errorf("DeleteExpired called %d times, want at least 1 (initial run)", repo.calls)
	}
}
