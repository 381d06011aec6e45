package user

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/minifeed/internal/model"
)

// mockUserRepo はテスト用のユーザーリポジトリモック。
type mockUserRepo struct {
	findByAuth0IDFunc func(ctx context.Context, auth0ID string) (*model.User, error)
	ensureUserFunc    func(ctx context.Context, claims model.Claims) (bool, error)
	updateColumnFunc  func(ctx context.Context, auth0ID, column, value string) (*model.User, error)
}

func (m *mockUserRepo) FindByAuth0ID(ctx context.Context, auth0ID string) (*model.User, error) {
	if m.findByAuth0IDFunc != nil {
		return m.findByAuth0IDFunc(ctx, auth0ID)
	}
	return nil, nil
}

func (m *mockUserRepo) EnsureUser(ctx context.Context, claims model.Claims) (bool, error) {
	if m.ensureUserFunc != nil {
		return m.ensureUserFunc(ctx, claims)
	}
	return false, nil
}

func (m *mockUserRepo) UpdateColumn(ctx context.Context, auth0ID, column, value string) (*model.User, error) {
	if m.updateColumnFunc != nil {
		return m.updateColumnFunc(ctx, auth0ID, column, value)
	}
	return nil, nil
}

// mockMetrics はテスト用のメトリクスレコーダー。
type mockMetrics struct {
	provisioned int
}

func (m *mockMetrics) IncUsersProvisioned() { m.provisioned++ }

func TestEnsureUser_NewUser(t *testing.T) {
	claims := model.Claims{
		Subject:   "auth0|user123",
		GivenName: "太郎",
		Email:     "taro@example.com",
	}

	var gotClaims model.Claims
	repo := &mockUserRepo{
		ensureUserFunc: func(ctx context.Context, c model.Claims) (bool, error) {
			gotClaims = c
			return true, nil
		},
	}
	metrics := &mockMetrics{}
	service := NewService(repo, metrics)

	if err := service.EnsureUser(context.Background(), claims); err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}

	if gotClaims != claims {
		t.Errorf("repo received claims %+v, want %+v", gotClaims, claims)
	}
	if metrics.provisioned != 1 {
		t.Errorf("provisioned metric = %d, want 1", metrics.provisioned)
	}
}

func TestEnsureUser_ExistingUser(t *testing.T) {
	repo := &mockUserRepo{
		ensureUserFunc: func(ctx context.Context, c model.Claims) (bool, error) {
			return false, nil
		},
	}
	metrics := &mockMetrics{}
	service := NewService(repo, metrics)

	if err := service.EnsureUser(context.Background(), model.Claims{Subject: "auth0|user123"}); err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}

	if metrics.provisioned != 0 {
		t.Errorf("provisioned metric = %d, want 0 for existing user", metrics.provisioned)
	}
}

func TestEnsureUser_RepoError(t *testing.T) {
	repo := &mockUserRepo{
		ensureUserFunc: func(ctx context.Context, c model.Claims) (bool, error) {
			return false, errors.New("db down")
		},
	}
	service := NewService(repo, nil)

	if err := service.EnsureUser(context.Background(), model.Claims{Subject: "auth0|user123"}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestEnsureUser_NilMetrics(t *testing.T) {
	repo := &mockUserRepo{
		ensureUserFunc: func(ctx context.Context, c model.Claims) (bool, error) {
			return true, nil
		},
	}
	service := NewService(repo, nil)

	// メトリクス未設定でもpanicしないこと
	if err := service.EnsureUser(context.Background(), model.Claims{Subject: "auth0|user123"}); err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}
}
