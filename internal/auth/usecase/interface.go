// Package usecase implements the session business logic: login completion,
// refresh token rotation, and logout.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/datavault/internal/auth/domain"
	identityDomain "github.com/allisson/datavault/internal/identity/domain"
	identityUseCase "github.com/allisson/datavault/internal/identity/usecase"
)

// SessionRepository defines session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, session *authDomain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Session, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// ClientInfo carries request metadata recorded on the session for auditing.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// SessionUseCase defines the session lifecycle operations. The OAuth wire
// exchange happens upstream; CompleteLogin trusts that the profile has been
// verified.
type SessionUseCase interface {
	// CompleteLogin resolves the user (creating on first login) and opens a
	// new session with a fresh token pair.
	CompleteLogin(ctx context.Context, profile identityUseCase.OAuthProfile, client ClientInfo) (*identityDomain.User, *authDomain.TokenPair, error)

	// Refresh rotates the refresh token: the presented token's session is
	// replaced by a new one and a new token pair is returned. A replayed
	// token finds no session and fails.
	Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*authDomain.TokenPair, error)

	// Authenticate verifies an access token and loads its user.
	Authenticate(ctx context.Context, accessToken string) (*identityDomain.User, error)

	// Logout removes the session of the presented refresh token.
	Logout(ctx context.Context, refreshToken string) error

	// CleanExpiredSessions removes sessions past their expiry.
	CleanExpiredSessions(ctx context.Context) (int64, error)
}
