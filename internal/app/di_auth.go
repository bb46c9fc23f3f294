package app

import (
	"fmt"

	authHTTP "github.com/allisson/datavault/internal/auth/http"
	authRepository "github.com/allisson/datavault/internal/auth/repository"
	authService "github.com/allisson/datavault/internal/auth/service"
	authUseCase "github.com/allisson/datavault/internal/auth/usecase"
)

// TokenService returns the JWT and refresh token service.
func (c *Container) TokenService() (authService.TokenService, error) {
	c.tokenServiceInit.Do(func() {
		if c.config.JWTSecretKey == "" {
			c.initErrors["tokenService"] = fmt.Errorf("JWT_SECRET_KEY is not set")
			return
		}
		c.tokenService = authService.NewTokenService(c.config.JWTSecretKey, c.config.AccessTokenExpiration)
	})
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// StateStore returns the in-memory OAuth state store. Closed on container
// shutdown.
func (c *Container) StateStore() *authService.MemoryStateStore {
	c.stateStoreInit.Do(func() {
		c.stateStore = authService.NewMemoryStateStore(c.config.OAuthStateTTL)
	})
	return c.stateStore
}

// SessionRepository returns the session repository instance.
func (c *Container) SessionRepository() (authUseCase.SessionRepository, error) {
	c.sessionRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["sessionRepo"] = fmt.Errorf("failed to get database for session repository: %w", err)
			return
		}
		c.sessionRepo = authRepository.NewPostgreSQLSessionRepository(db)
	})
	if storedErr, exists := c.initErrors["sessionRepo"]; exists {
		return nil, storedErr
	}
	return c.sessionRepo, nil
}

// SessionUseCase returns the session use case instance.
func (c *Container) SessionUseCase() (authUseCase.SessionUseCase, error) {
	c.sessionUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["sessionUseCase"] = fmt.Errorf("failed to get tx manager for session use case: %w", err)
			return
		}

		sessionRepo, err := c.SessionRepository()
		if err != nil {
			c.initErrors["sessionUseCase"] = fmt.Errorf("failed to get session repository for session use case: %w", err)
			return
		}

		userUC, err := c.UserUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = fmt.Errorf("failed to get user use case for session use case: %w", err)
			return
		}

		tokenService, err := c.TokenService()
		if err != nil {
			c.initErrors["sessionUseCase"] = fmt.Errorf("failed to get token service for session use case: %w", err)
			return
		}

		c.sessionUseCase = authUseCase.NewSessionUseCase(
			txManager,
			sessionRepo,
			userUC,
			tokenService,
			c.config.AccessTokenExpiration,
			c.config.RefreshTokenTTL,
		)
	})
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// SessionHandler returns the session HTTP handler.
func (c *Container) SessionHandler() (*authHTTP.SessionHandler, error) {
	sessionUC, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for session handler: %w", err)
	}
	return authHTTP.NewSessionHandler(sessionUC, c.Logger()), nil
}
