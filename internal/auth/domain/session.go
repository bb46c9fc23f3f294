// Package domain defines the core domain models for session management.
// Sessions track refresh tokens, which are stored only as SHA-256 hashes;
// losing the database never leaks a usable token.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one logged-in device for a user. The refresh token
// itself is handed to the client once and never persisted.
type Session struct {
	// ID is the unique identifier for this session.
	ID uuid.UUID
	// UserID is the owning user.
	UserID uuid.UUID
	// RefreshTokenHash is the hex SHA-256 hash of the opaque refresh token.
	RefreshTokenHash string
	// ExpiresAt is when the session stops accepting refreshes.
	ExpiresAt time.Time
	// UserAgent and IPAddress record client information for auditing.
	UserAgent string
	IPAddress string
	// CreatedAt is the UTC timestamp when the session was created.
	CreatedAt time.Time
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// TokenPair carries the credentials returned to a client after login or
// refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}
