package profile

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

func TestGetProfile(t *testing.T) {
	want := &model.User{Auth0ID: "auth0|user123", GivenName: "太郎", Email: "taro@example.com"}
	repo := &mockUserRepo{
		findByAuth0IDFunc: func(ctx context.Context, auth0ID string) (*model.User, error) {
			return want, nil
		},
	}
	service := NewService(repo)

	got, err := service.GetProfile(context.Background(), "auth0|user123")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got != want {
		t.Errorf("GetProfile() = %+v, want %+v", got, want)
	}
}

func TestGetProfile_NotProvisioned(t *testing.T) {
	repo := &mockUserRepo{
		findByAuth0IDFunc: func(ctx context.Context, auth0ID string) (*model.User, error) {
			return nil, nil
		},
	}
	service := NewService(repo)

	_, err := service.GetProfile(context.Background(), "auth0|newcomer")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeUserNotFound)
	}
}

func TestUpdateProfile_AllowedFields(t *testing.T) {
	for _, field := range []string{"email", "given_name", "picture"} {
		t.Run(field, func(t *testing.T) {
			var gotColumn, gotValue string
			repo := &mockUserRepo{
				updateColumnFunc: func(ctx context.Context, auth0ID, column, value string) (*model.User, error) {
					gotColumn = column
					gotValue = value
					return &model.User{Auth0ID: auth0ID}, nil
				},
			}
			service := NewService(repo)

			_, err := service.UpdateProfile(context.Background(), "auth0|user123", field, "new-value")
			if err != nil {
				t.Fatalf("UpdateProfile(%s) error = %v", field, err)
			}
			if gotColumn != field {
				t.Errorf("column = %q, want %q", gotColumn, field)
			}
			if gotValue != "new-value" {
				t.Errorf("value = %q, want %q", gotValue, "new-value")
			}
		})
	}
}

func TestUpdateProfile_InvalidField(t *testing.T) {
	for _, field := range []string{"family_name", "auth0_id", "created_at", "", "email; DROP TABLE users"} {
		t.Run(field, func(t *testing.T) {
			repoCalled := false
			repo := &mockUserRepo{
				updateColumnFunc: func(ctx context.Context, auth0ID, column, value string) (*model.User, error) {
					repoCalled = true
					return nil, nil
				},
			}
			service := NewService(repo)

			_, err := service.UpdateProfile(context.Background(), "auth0|user123", field, "v")
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error should be APIError, got %T", err)
			}
			if apiErr.Code != model.ErrCodeInvalidField {
				t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeInvalidField)
			}
			if repoCalled {
				t.Error("repository should not be called for invalid field")
			}
		})
	}
}

func TestUpdateProfile_EmailRoundTrip(t *testing.T) {
	stored := &model.User{Auth0ID: "auth0|user123", Email: "old@example.com"}
	repo := &mockUserRepo{
		updateColumnFunc: func(ctx context.Context, auth0ID, column, value string) (*model.User, error) {
			stored.Email = value
			u := *stored
			return &u, nil
		},
		findByAuth0IDFunc: func(ctx context.Context, auth0ID string) (*model.User, error) {
			u := *stored
			return &u, nil
		},
	}
	service := NewService(repo)

	updated, err := service.UpdateProfile(context.Background(), "auth0|user123", "email", "x@y.com")
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Email != "x@y.com" {
		t.Errorf("updated email = %q, want %q", updated.Email, "x@y.com")
	}

	fetched, err := service.GetProfile(context.Background(), "auth0|user123")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if fetched.Email != "x@y.com" {
		t.Errorf("fetched email = %q, want %q", fetched.Email, "x@y.com")
	}
}

func TestUpdateProfile_MissingUser(t *testing.T) {
	repo := &mockUserRepo{
		updateColumnFunc: func(ctx context.Context, auth0ID, column, value string) (*model.User, error) {
			return nil, nil
		},
	}
	service := NewService(repo)

	_, err := service.UpdateProfile(context.Background(), "auth0|ghost", "email", "x@y.com")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeUserNotFound)
	}
}
