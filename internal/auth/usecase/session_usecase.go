package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/datavault/internal/auth/domain"
	authService "github.com/allisson/datavault/internal/auth/service"
	"github.com/allisson/datavault/internal/database"
	identityDomain "github.com/allisson/datavault/internal/identity/domain"
	identityUseCase "github.com/allisson/datavault/internal/identity/usecase"
)

// sessionUseCase implements the SessionUseCase interface.
type sessionUseCase struct {
	txManager       database.TxManager
	sessionRepo     SessionRepository
	userUseCase     identityUseCase.UseCase
	tokenService    authService.TokenService
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewSessionUseCase creates a new session use case.
func NewSessionUseCase(
	txManager database.TxManager,
	sessionRepo SessionRepository,
	userUseCase identityUseCase.UseCase,
	tokenService authService.TokenService,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) SessionUseCase {
	return &sessionUseCase{
		txManager:       txManager,
		sessionRepo:     sessionRepo,
		userUseCase:     userUseCase,
		tokenService:    tokenService,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// CompleteLogin resolves the user for a verified OAuth profile and opens a
// new session.
func (s *sessionUseCase) CompleteLogin(
	ctx context.Context,
	profile identityUseCase.OAuthProfile,
	client ClientInfo,
) (*identityDomain.User, *authDomain.TokenPair, error) {
	user, err := s.userUseCase.GetOrCreateUser(ctx, profile)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.openSession(ctx, user, client)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates the session behind the presented refresh token.
func (s *sessionUseCase) Refresh(
	ctx context.Context,
	refreshToken string,
	client ClientInfo,
) (*authDomain.TokenPair, error) {
	tokenHash := s.tokenService.HashToken(refreshToken)

	session, err := s.sessionRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if session.IsExpired() {
		// Remove the dead session so the table does not collect corpses.
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return nil, authDomain.ErrSessionExpired
	}

	user, err := s.userUseCase.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	// Rotation: the old session dies and a new one replaces it inside one
	// transaction, so the presented token can never be used twice.
	var pair *authDomain.TokenPair
	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.sessionRepo.Delete(txCtx, session.ID); err != nil {
			return err
		}
		pair, err = s.openSession(txCtx, user, client)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Authenticate verifies an access token and loads its user.
func (s *sessionUseCase) Authenticate(
	ctx context.Context,
	accessToken string,
) (*identityDomain.User, error) {
	claims, err := s.tokenService.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	return s.userUseCase.GetUserByID(ctx, claims.UserID)
}

// Logout removes the session of the presented refresh token. An unknown
// token is not an error; logout is idempotent.
func (s *sessionUseCase) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := s.tokenService.HashToken(refreshToken)

	session, err := s.sessionRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return s.sessionRepo.Delete(ctx, session.ID)
}

// CleanExpiredSessions removes sessions past their expiry.
func (s *sessionUseCase) CleanExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx)
}

// openSession issues a token pair and persists the new session.
func (s *sessionUseCase) openSession(
	ctx context.Context,
	user *identityDomain.User,
	client ClientInfo,
) (*authDomain.TokenPair, error) {
	accessToken, err := s.tokenService.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, tokenHash, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &authDomain.Session{
		ID:               uuid.Must(uuid.NewV7()),
		UserID:           user.ID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        now.Add(s.refreshTokenTTL),
		UserAgent:        client.UserAgent,
		IPAddress:        client.IPAddress,
		CreatedAt:        now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &authDomain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.accessTokenTTL.Seconds()),
	}, nil
}
