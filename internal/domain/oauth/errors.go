package oauth

import "errors"

var (
	// ErrProviderNotFound signals a login attempt for an unconfigured provider.
	ErrProviderNotFound = errors.New("oauth: provider not found")
	// ErrInvalidState indicates the handshake state cookie is absent, stale,
	// or does not match the state parameter echoed by the provider.
	ErrInvalidState = errors.New("oauth: invalid state")
	// ErrTokenInvalid indicates the provider returned an unusable token or
	// profile.
	ErrTokenInvalid = errors.New("oauth: token invalid")
)
