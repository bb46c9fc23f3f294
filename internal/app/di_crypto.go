package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	cryptoService "github.com/allisson/datavault/internal/crypto/service"
)

// ApplicationSecret returns the application secret loaded from the
// environment. It participates in master key derivation for every user.
func (c *Container) ApplicationSecret() (cryptoDomain.ApplicationSecret, error) {
	c.appSecretInit.Do(func() {
		secret, err := cryptoDomain.LoadApplicationSecretFromEnv()
		if err != nil {
			c.initErrors["appSecret"] = fmt.Errorf("failed to load application secret: %w", err)
			return
		}
		c.appSecret = secret
	})
	if storedErr, exists := c.initErrors["appSecret"]; exists {
		return "", storedErr
	}
	return c.appSecret, nil
}

// KeyResolver returns the master key resolver.
func (c *Container) KeyResolver() (cryptoService.MasterKeyResolver, error) {
	c.keyResolverInit.Do(func() {
		secret, err := c.ApplicationSecret()
		if err != nil {
			c.initErrors["keyResolver"] = err
			return
		}
		resolver, err := cryptoService.NewKeyResolver(secret)
		if err != nil {
			c.initErrors["keyResolver"] = fmt.Errorf("failed to create key resolver: %w", err)
			return
		}
		c.keyResolver = resolver
	})
	if storedErr, exists := c.initErrors["keyResolver"]; exists {
		return nil, storedErr
	}
	return c.keyResolver, nil
}

// VaultCodec returns the codec that encrypts and decrypts content under a
// user's master key. It is shared by the vault and integration use cases.
func (c *Container) VaultCodec() (cryptoService.Codec, error) {
	c.vaultCodecInit.Do(func() {
		resolver, err := c.KeyResolver()
		if err != nil {
			c.initErrors["vaultCodec"] = err
			return
		}
		c.vaultCodec = cryptoService.NewVaultCodec(resolver)
	})
	if storedErr, exists := c.initErrors["vaultCodec"]; exists {
		return nil, storedErr
	}
	return c.vaultCodec, nil
}
