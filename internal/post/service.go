// Package post は投稿の作成・削除とフィード取得を提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/minifeed/internal/model"
	"github.com/hitoshi/minifeed/internal/repository"
)

// MetricsRecorder は投稿メトリクスの記録インターフェース。
type MetricsRecorder interface {
	IncPostsCreated()
	IncPostsDeleted()
	IncFeedRenders()
}

// Service は投稿に関するビジネスロジックを提供する。
type Service struct {
	postRepo repository.PostRepository
	metrics  MetricsRecorder
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(postRepo repository.PostRepository, metrics MetricsRecorder) *Service {
	return &Service{
		postRepo: postRepo,
		metrics:  metrics,
	}
}

// CreatePost は投稿を作成する。
// タイトル・本文は送信された値をそのまま保存する。空文字も許容される。
func (s *Service) CreatePost(ctx context.Context, authorID, title, content string) (*model.Post, error) {
	post := &model.Post{
		Auth0ID: authorID,
		Title:   title,
		Content: content,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created",
		slog.Int64("post_id", post.ID),
		slog.String("author", authorID),
	)
	if s.metrics != nil {
		s.metrics.IncPostsCreated()
	}

	return post, nil
}

// ListFeed は全投稿を作成日時の降順で返す。
func (s *Service) ListFeed(ctx context.Context) ([]model.FeedEntry, error) {
	entries, err := s.postRepo.ListFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncFeedRenders()
	}

	return entries, nil
}

// DeletePost は投稿を削除する。
// 存在確認を所有権確認より先に行う。存在しない投稿はPOST_NOT_FOUND、
// 他人の投稿はPOST_FORBIDDENを返し、いずれの場合も削除は実行されない。
func (s *Service) DeletePost(ctx context.Context, postID int64, requesterID string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil {
		return model.NewPostNotFoundError(postID)
	}

	if post.Auth0ID != requesterID {
		return model.NewPostForbiddenError(postID)
	}

	if err := s.postRepo.DeleteByID(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	slog.Info("post deleted",
		slog.Int64("post_id", postID),
		slog.String("requester", requesterID),
	)
	if s.metrics != nil {
		s.metrics.IncPostsDeleted()
	}

	return nil
}
