package domain

import "time"

// User is a registered community member.
type User struct {
	ID           int64
	Email        string
	Nickname     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal identifies the authenticated actor on a request. It carries no
// credentials; ownership of the user record stays with the user service.
type Principal struct {
	UserID   int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}
