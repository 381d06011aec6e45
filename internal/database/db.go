package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// 接続プールの設定。webとworkerの2プロセスが同じDBを共有する
// 小規模構成のため、プロセスあたりの接続数は控えめにする。
const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Open はPostgreSQLへの接続プールを開く。
// databaseURLはPostgreSQLの接続URLを指定する（例: "postgres://minifeed:pass@db:5432/minifeed?sslmode=disable"）。
// sql.Openは接続を検証しないため、起動時にdb.Ping()で疎通を確認すること。
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return db, nil
}
