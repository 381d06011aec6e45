// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/minifeed/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByAuth0ID は指定の外部識別子のユーザーを取得する。見つからない場合はnilを返す。
	FindByAuth0ID(ctx context.Context, auth0ID string) (*model.User, error)

	// EnsureUser はクレームに対応するユーザー行が存在することを保証する。
	// ON CONFLICT DO NOTHING による単一のアトミックなINSERTで実現し、
	// 同一識別子への並行呼び出しでも行は1つしか作られない。
	// 戻り値は新規に行が作成されたかどうか。
	EnsureUser(ctx context.Context, claims model.Claims) (created bool, err error)

	// UpdateColumn は許可済みカラムを単一カラム更新し、更新後の行を返す。
	// 該当ユーザーが存在しない場合はnilを返す。
	// columnは固定の候補（email, given_name, picture）のみ受け付け、
	// それ以外はエラーを返す。
	UpdateColumn(ctx context.Context, auth0ID, column, value string) (*model.User, error)
}

// PostRepository は投稿データの永続化インターフェース。
type PostRepository interface {
	// Create は投稿を作成し、採番されたIDと作成日時をpostに書き戻す。
	Create(ctx context.Context, post *model.Post) error

	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Post, error)

	// ListFeed は全投稿を投稿者のgiven_nameと結合し、作成日時の降順で返す。
	ListFeed(ctx context.Context) ([]model.FeedEntry, error)

	// DeleteByID は指定IDの投稿を削除する。
	DeleteByID(ctx context.Context, id int64) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れの全セッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}
