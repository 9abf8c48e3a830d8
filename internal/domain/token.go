package domain

import "time"

// RefreshToken is the single currently-valid refresh token for a user.
// The user_id column is unique: issuing a new token overwrites the row, so
// the previous value silently stops being findable by value.
type RefreshToken struct {
	UserID    int64
	Token     string
	UpdatedAt time.Time
}
