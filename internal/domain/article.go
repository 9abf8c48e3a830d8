package domain

import "time"

// Article is a community post.
type Article struct {
	ID        int64
	UserID    int64
	Author    string
	Title     string
	Content   string
	FileURLs  []string
	Likes     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment belongs to an article. ParentID is nil for top-level comments and
// points at another comment of the same article for replies.
type Comment struct {
	ID        int64
	ArticleID int64
	UserID    int64
	Nickname  string
	Content   string
	ParentID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
