package app

import (
	"fmt"

	"github.com/allisson/datavault/internal/metrics"
	vaultHTTP "github.com/allisson/datavault/internal/vault/http"
	vaultRepository "github.com/allisson/datavault/internal/vault/repository"
	vaultUseCase "github.com/allisson/datavault/internal/vault/usecase"
)

// ItemRepository returns the vault item repository instance.
func (c *Container) ItemRepository() (vaultUseCase.ItemRepository, error) {
	c.itemRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["itemRepo"] = fmt.Errorf("failed to get database for item repository: %w", err)
			return
		}
		c.itemRepo = vaultRepository.NewPostgreSQLItemRepository(db)
	})
	if storedErr, exists := c.initErrors["itemRepo"]; exists {
		return nil, storedErr
	}
	return c.itemRepo, nil
}

// TagRepository returns the tag repository instance.
func (c *Container) TagRepository() (vaultUseCase.TagRepository, error) {
	c.tagRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["tagRepo"] = fmt.Errorf("failed to get database for tag repository: %w", err)
			return
		}
		c.tagRepo = vaultRepository.NewPostgreSQLTagRepository(db)
	})
	if storedErr, exists := c.initErrors["tagRepo"]; exists {
		return nil, storedErr
	}
	return c.tagRepo, nil
}

// ItemUseCase returns the vault item use case, wrapped with business
// metrics when metrics are enabled.
func (c *Container) ItemUseCase() (vaultUseCase.ItemUseCase, error) {
	c.itemUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["itemUseCase"] = fmt.Errorf("failed to get tx manager for item use case: %w", err)
			return
		}

		itemRepo, err := c.ItemRepository()
		if err != nil {
			c.initErrors["itemUseCase"] = fmt.Errorf("failed to get item repository for item use case: %w", err)
			return
		}

		tagRepo, err := c.TagRepository()
		if err != nil {
			c.initErrors["itemUseCase"] = fmt.Errorf("failed to get tag repository for item use case: %w", err)
			return
		}

		codec, err := c.VaultCodec()
		if err != nil {
			c.initErrors["itemUseCase"] = fmt.Errorf("failed to get codec for item use case: %w", err)
			return
		}

		useCase := vaultUseCase.NewItemUseCase(txManager, itemRepo, tagRepo, codec, c.config.MaxContentBytes)

		businessMetrics, err := c.businessMetrics()
		if err != nil {
			c.initErrors["itemUseCase"] = err
			return
		}
		c.itemUseCase = vaultUseCase.NewItemUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["itemUseCase"]; exists {
		return nil, storedErr
	}
	return c.itemUseCase, nil
}

// TagUseCase returns the tag use case instance.
func (c *Container) TagUseCase() (vaultUseCase.TagUseCase, error) {
	c.tagUseCaseInit.Do(func() {
		tagRepo, err := c.TagRepository()
		if err != nil {
			c.initErrors["tagUseCase"] = fmt.Errorf("failed to get tag repository for tag use case: %w", err)
			return
		}
		c.tagUseCase = vaultUseCase.NewTagUseCase(tagRepo)
	})
	if storedErr, exists := c.initErrors["tagUseCase"]; exists {
		return nil, storedErr
	}
	return c.tagUseCase, nil
}

// VaultItemHandler returns the vault item HTTP handler.
func (c *Container) VaultItemHandler() (*vaultHTTP.VaultItemHandler, error) {
	itemUC, err := c.ItemUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get item use case for vault item handler: %w", err)
	}
	return vaultHTTP.NewVaultItemHandler(itemUC, c.Logger()), nil
}

// TagHandler returns the tag HTTP handler.
func (c *Container) TagHandler() (*vaultHTTP.TagHandler, error) {
	tagUC, err := c.TagUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get tag use case for tag handler: %w", err)
	}
	return vaultHTTP.NewTagHandler(tagUC, c.Logger()), nil
}

// businessMetrics resolves the operation metrics recorder, falling back to
// a no-op when metrics are disabled.
func (c *Container) businessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}
