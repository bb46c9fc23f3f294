package domain

import (
	"github.com/allisson/datavault/internal/errors"
)

// Session-specific error definitions.
var (
	// ErrSessionNotFound indicates no session matches the presented refresh
	// token.
	ErrSessionNotFound = errors.Wrap(errors.ErrUnauthorized, "session not found")

	// ErrSessionExpired indicates the session exists but can no longer be
	// refreshed.
	ErrSessionExpired = errors.Wrap(errors.ErrUnauthorized, "session expired")

	// ErrInvalidAccessToken indicates the access token failed signature or
	// claim validation.
	ErrInvalidAccessToken = errors.Wrap(errors.ErrUnauthorized, "invalid access token")

	// ErrInvalidState indicates the OAuth state parameter is unknown,
	// already consumed, or expired.
	ErrInvalidState = errors.Wrap(errors.ErrInvalidInput, "invalid or expired state")
)
