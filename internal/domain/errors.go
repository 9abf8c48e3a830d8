package domain

import "errors"

var (
	// ErrBadCredentials signals a wrong email or password at login.
	ErrBadCredentials = errors.New("auth: bad credentials")
	// ErrTokenInvalid indicates a malformed, tampered, or expired token.
	// Causes are deliberately not distinguished to callers.
	ErrTokenInvalid = errors.New("auth: token invalid")
	// ErrTokenNotFound indicates a refresh token value that was never issued
	// or has been superseded by rotation.
	ErrTokenNotFound = errors.New("auth: token not found")
	// ErrUnauthorized is raised by the route policy check, never by the
	// authentication middleware itself.
	ErrUnauthorized = errors.New("auth: unauthorized")
	// ErrNotFound signals a missing business entity.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthor signals a write attempt by someone other than the author.
	ErrNotAuthor = errors.New("not authorized")
)
