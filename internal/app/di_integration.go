package app

import (
	"fmt"

	integrationRepository "github.com/allisson/datavault/internal/integration/repository"
	integrationUseCase "github.com/allisson/datavault/internal/integration/usecase"
)

// IntegrationRepository returns the integration repository instance.
func (c *Container) IntegrationRepository() (integrationUseCase.IntegrationRepository, error) {
	c.integrationRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["integrationRepo"] = fmt.Errorf("failed to get database for integration repository: %w", err)
			return
		}
		c.integrationRepo = integrationRepository.NewPostgreSQLIntegrationRepository(db)
	})
	if storedErr, exists := c.initErrors["integrationRepo"]; exists {
		return nil, storedErr
	}
	return c.integrationRepo, nil
}

// TokenRepository returns the integration token repository instance.
func (c *Container) TokenRepository() (integrationUseCase.TokenRepository, error) {
	c.tokenRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["tokenRepo"] = fmt.Errorf("failed to get database for token repository: %w", err)
			return
		}
		c.tokenRepo = integrationRepository.NewPostgreSQLTokenRepository(db)
	})
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// IntegrationUseCase returns the integration use case instance.
func (c *Container) IntegrationUseCase() (integrationUseCase.IntegrationUseCase, error) {
	c.integrationUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["integrationUseCase"] = fmt.Errorf("failed to get tx manager for integration use case: %w", err)
			return
		}

		integrationRepo, err := c.IntegrationRepository()
		if err != nil {
			c.initErrors["integrationUseCase"] = fmt.Errorf("failed to get integration repository for integration use case: %w", err)
			return
		}

		tokenRepo, err := c.TokenRepository()
		if err != nil {
			c.initErrors["integrationUseCase"] = fmt.Errorf("failed to get token repository for integration use case: %w", err)
			return
		}

		codec, err := c.VaultCodec()
		if err != nil {
			c.initErrors["integrationUseCase"] = fmt.Errorf("failed to get codec for integration use case: %w", err)
			return
		}

		c.integrationUseCase = integrationUseCase.NewIntegrationUseCase(txManager, integrationRepo, tokenRepo, codec)
	})
	if storedErr, exists := c.initErrors["integrationUseCase"]; exists {
		return nil, storedErr
	}
	return c.integrationUseCase, nil
}
