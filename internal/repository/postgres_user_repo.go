package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/minifeed/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByAuth0ID は指定の外部識別子のユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByAuth0ID(ctx context.Context, auth0ID string) (*model.User, error) {
	user := &model.User{}
	var picture sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT auth0_id, given_name, family_name, email, picture, created_at
		 FROM users WHERE auth0_id = $1`,
		auth0ID,
	).Scan(&user.Auth0ID, &user.GivenName, &user.FamilyName, &user.Email, &picture, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by auth0 ID: %w", err)
	}

	if picture.Valid {
		user.Picture = &picture.String
	}
	return user, nil
}

// EnsureUser はクレームに対応するユーザー行が存在することを保証する。
// auth0_idのユニーク制約とON CONFLICT DO NOTHINGにより、
// 並行呼び出しでも重複行は作られない。
func (r *PostgresUserRepo) EnsureUser(ctx context.Context, claims model.Claims) (bool, error) {
	// IdPがpictureを提供しない場合はNULLを格納する
	var picture sql.NullString
	if claims.Picture != "" {
		picture = sql.NullString{String: claims.Picture, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (auth0_id, given_name, family_name, email, picture)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (auth0_id) DO NOTHING`,
		claims.Subject, claims.GivenName, claims.FamilyName, claims.Email, picture,
	)
	if err != nil {
		return false, fmt.Errorf("failed to ensure user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// UpdateColumn は許可済みカラムを単一カラム更新し、更新後の行を返す。
// カラム名をSQLに文字列連結しないよう、候補ごとに固定のクエリを使用する。
func (r *PostgresUserRepo) UpdateColumn(ctx context.Context, auth0ID, column, value string) (*model.User, error) {
	var query string
	switch column {
	case "email":
		query = `UPDATE users SET email = $1 WHERE auth0_id = $2
		         RETURNING auth0_id, given_name, family_name, email, picture, created_at`
	case "given_name":
		query = `UPDATE users SET given_name = $1 WHERE auth0_id = $2
		         RETURNING auth0_id, given_name, family_name, email, picture, created_at`
	case "picture":
		query = `UPDATE users SET picture = $1 WHERE auth0_id = $2
		         RETURNING auth0_id, given_name, family_name, email, picture, created_at`
	default:
		return nil, fmt.Errorf("column %q is not updatable", column)
	}

	user := &model.User{}
	var picture sql.NullString
	err := r.db.QueryRowContext(ctx, query, value, auth0ID).
		Scan(&user.Auth0ID, &user.GivenName, &user.FamilyName, &user.Email, &picture, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user column: %w", err)
	}

	if picture.Valid {
		user.Picture = &picture.String
	}
	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
