// Package user はローカルユーザーのプロビジョニングを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/minifeed/internal/model"
	"github.com/hitoshi/minifeed/internal/repository"
)

// MetricsRecorder はプロビジョニングメトリクスの記録インターフェース。
type MetricsRecorder interface {
	IncUsersProvisioned()
}

// Service はユーザーのプロビジョニングに関するビジネスロジックを提供する。
// ユーザー行はIdPのクレームから遅延作成される。ログイン時ではなく、
// ローカル行を必要とする操作の直前に呼び出される。
type Service struct {
	userRepo repository.UserRepository
	metrics  MetricsRecorder
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(userRepo repository.UserRepository, metrics MetricsRecorder) *Service {
	return &Service{
		userRepo: userRepo,
		metrics:  metrics,
	}
}

// EnsureUser はクレームに対応するユーザー行の存在を保証する。
// 既に存在する場合は何もしない。挿入はON CONFLICTで競合安全に行われるため、
// 同一ユーザーの並行呼び出しでも行は一つしか作られない。
func (s *Service) EnsureUser(ctx context.Context, claims model.Claims) error {
	created, err := s.userRepo.EnsureUser(ctx, claims)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}

	if created {
		slog.Info("user provisioned",
			slog.String("auth0_id", claims.Subject),
			slog.String("email", claims.Email),
		)
		if s.metrics != nil {
			s.metrics.IncUsersProvisioned()
		}
	}

	return nil
}
