// Package service implements the session token primitives: signed JWT access
// tokens, opaque refresh tokens, and the OAuth state store.
package service

import (
	"github.com/google/uuid"
)

// AccessClaims are the verified claims carried by an access token.
type AccessClaims struct {
	UserID uuid.UUID
	Email  string
}

// TokenService issues and verifies the two session credentials. Access
// tokens are short-lived HS256 JWTs validated statelessly; refresh tokens
// are opaque random values matched against their stored SHA-256 hash.
type TokenService interface {
	IssueAccessToken(userID uuid.UUID, email string) (string, error)
	VerifyAccessToken(token string) (*AccessClaims, error)

	// GenerateRefreshToken returns a new random token and its hex SHA-256
	// hash. Only the hash is ever persisted.
	GenerateRefreshToken() (plainToken string, tokenHash string, err error)
	HashToken(plainToken string) string
}

// StateStore holds OAuth state entries for CSRF protection. Entries are
// one-time use and expire after their TTL.
type StateStore interface {
	// Save stores data under the state token.
	Save(state string, data map[string]string)
	// Consume retrieves and removes the entry, returning false when the
	// state is unknown, already consumed, or expired.
	Consume(state string) (map[string]string, bool)
	// Close stops the background cleanup.
	Close()
}
