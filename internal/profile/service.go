// Package profile はプロフィールの取得と限定的な更新を提供する。
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/minifeed/internal/model"
	"github.com/hitoshi/minifeed/internal/repository"
)

// updatableColumns は更新を許可するカラムの許可リスト。
// ここに無いフィールド名はデータベースに一切触れずに拒否する。
var updatableColumns = map[string]bool{
	"email":      true,
	"given_name": true,
	"picture":    true,
}

// Service はプロフィールに関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// GetProfile は指定ユーザーのプロフィールを取得する。
// 行が存在しない場合（まだ投稿していないユーザー）はUSER_NOT_FOUNDを返す。
func (s *Service) GetProfile(ctx context.Context, auth0ID string) (*model.User, error) {
	u, err := s.userRepo.FindByAuth0ID(ctx, auth0ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}
	return u, nil
}

// UpdateProfile は許可リスト内の単一フィールドを更新し、更新後のユーザーを返す。
// 許可リスト外のフィールドはINVALID_FIELDを返し、リポジトリは呼び出されない。
func (s *Service) UpdateProfile(ctx context.Context, auth0ID, field, value string) (*model.User, error) {
	if !updatableColumns[field] {
		return nil, model.NewInvalidFieldError(field)
	}

	u, err := s.userRepo.UpdateColumn(ctx, auth0ID, field, value)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}

	slog.Info("profile updated",
		slog.String("auth0_id", auth0ID),
		slog.String("field", field),
	)

	return u, nil
}
