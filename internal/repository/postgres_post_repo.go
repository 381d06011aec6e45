package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/minifeed/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// Create は投稿を作成し、採番されたIDと作成日時をpostに書き戻す。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO posts (auth0_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		post.Auth0ID, post.Title, post.Content,
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, auth0_id, title, content, created_at FROM posts WHERE id = $1`,
		id,
	).Scan(&post.ID, &post.Auth0ID, &post.Title, &post.Content, &post.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post by ID: %w", err)
	}

	return post, nil
}

// ListFeed は全投稿を投稿者のgiven_nameと結合し、作成日時の降順で返す。
// 並び順はSQLで保証する。ページネーションは行わない。
func (r *PostgresPostRepo) ListFeed(ctx context.Context) ([]model.FeedEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT posts.id, posts.auth0_id, posts.title, posts.content, posts.created_at,
		        users.given_name
		 FROM posts
		 JOIN users ON posts.auth0_id = users.auth0_id
		 ORDER BY posts.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}
	defer rows.Close()

	var entries []model.FeedEntry
	for rows.Next() {
		var e model.FeedEntry
		if err := rows.Scan(&e.ID, &e.Auth0ID, &e.Title, &e.Content, &e.CreatedAt, &e.AuthorGivenName); err != nil {
			return nil, fmt.Errorf("failed to scan feed entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feed rows: %w", err)
	}

	return entries, nil
}

// DeleteByID は指定IDの投稿を削除する。
func (r *PostgresPostRepo) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
