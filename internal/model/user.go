// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// 主キーは外部IdP（Auth0）が発行するsubject識別子。
// レコードは初回の認証済み書き込み操作時に遅延作成される。
type User struct {
	Auth0ID    string
	GivenName  string
	FamilyName string
	Email      string
	Picture    *string // IdPが提供しない場合はnull
	CreatedAt  time.Time
}

// Claims は外部IdPから取得した認証済みユーザーのクレームを表す。
// Subjectはユーザーの安定した一意識別子で、usersテーブルとの結合キー。
type Claims struct {
	Subject    string
	GivenName  string
	FamilyName string
	Email      string
	Picture    string // 未提供の場合は空文字
}

// Session はユーザーのログインセッションを表す。
// IdPへの往復なしにリクエストごとの認証状態を返せるよう、
// ログイン時のクレームのスナップショットを保持する。
type Session struct {
	ID        string
	Claims    Claims
	ExpiresAt time.Time
	CreatedAt time.Time
}
