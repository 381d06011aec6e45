package model

import "time"

// Post はユーザーの投稿を表す。
// 作成後に更新されることはなく、削除できるのは投稿者本人のみ。
type Post struct {
	ID        int64
	Auth0ID   string
	Title     string
	Content   string
	CreatedAt time.Time
}

// FeedEntry はフィード表示用に投稿と投稿者名を結合したもの。
type FeedEntry struct {
	Post
	AuthorGivenName string
}
