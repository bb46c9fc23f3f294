package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/allisson/datavault/internal/crypto/service"
	"github.com/allisson/datavault/internal/database"
	identityDomain "github.com/allisson/datavault/internal/identity/domain"
	integrationDomain "github.com/allisson/datavault/internal/integration/domain"
)

// integrationUseCase implements the IntegrationUseCase interface.
type integrationUseCase struct {
	txManager       database.TxManager
	integrationRepo IntegrationRepository
	tokenRepo       TokenRepository
	codec           cryptoService.Codec
}

// NewIntegrationUseCase creates a new integration use case.
func NewIntegrationUseCase(
	txManager database.TxManager,
	integrationRepo IntegrationRepository,
	tokenRepo TokenRepository,
	codec cryptoService.Codec,
) IntegrationUseCase {
	return &integrationUseCase{
		txManager:       txManager,
		integrationRepo: integrationRepo,
		tokenRepo:       tokenRepo,
		codec:           codec,
	}
}

// Connect creates an integration and stores its initial tokens in one
// transaction.
func (i *integrationUseCase) Connect(
	ctx context.Context,
	user *identityDomain.User,
	input ConnectInput,
) (*integrationDomain.Integration, error) {
	if !input.Provider.IsValid() {
		return nil, integrationDomain.ErrInvalidProvider
	}
	for _, token := range input.Tokens {
		if !token.Type.IsValid() {
			return nil, integrationDomain.ErrInvalidTokenType
		}
	}

	now := time.Now().UTC()
	integration := &integrationDomain.Integration{
		ID:               uuid.Must(uuid.NewV7()),
		UserID:           user.ID,
		Provider:         input.Provider,
		Status:           integrationDomain.StatusConnected,
		ProviderMetadata: input.ProviderMetadata,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if integration.ProviderMetadata == nil {
		integration.ProviderMetadata = map[string]any{}
	}

	encrypted, err := i.encryptTokens(user, integration.ID, input.Tokens)
	if err != nil {
		return nil, err
	}

	err = i.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := i.integrationRepo.Create(txCtx, integration); err != nil {
			return err
		}
		for _, token := range encrypted {
			if err := i.tokenRepo.Upsert(txCtx, token); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return integration, nil
}

// GetIntegration retrieves one integration of the user.
func (i *integrationUseCase) GetIntegration(
	ctx context.Context,
	userID uuid.UUID,
	integrationID uuid.UUID,
) (*integrationDomain.Integration, error) {
	return i.integrationRepo.GetByID(ctx, userID, integrationID)
}

// ListIntegrations retrieves all integrations of the user.
func (i *integrationUseCase) ListIntegrations(
	ctx context.Context,
	userID uuid.UUID,
) ([]*integrationDomain.Integration, error) {
	return i.integrationRepo.ListByUser(ctx, userID)
}

// StoreTokens encrypts and stores tokens for an existing integration.
func (i *integrationUseCase) StoreTokens(
	ctx context.Context,
	user *identityDomain.User,
	integrationID uuid.UUID,
	tokens []TokenInput,
) error {
	for _, token := range tokens {
		if !token.Type.IsValid() {
			return integrationDomain.ErrInvalidTokenType
		}
	}

	// Ownership check before anything touches the token table.
	integration, err := i.integrationRepo.GetByID(ctx, user.ID, integrationID)
	if err != nil {
		return err
	}

	encrypted, err := i.encryptTokens(user, integration.ID, tokens)
	if err != nil {
		return err
	}

	return i.txManager.WithTx(ctx, func(txCtx context.Context) error {
		for _, token := range encrypted {
			if err := i.tokenRepo.Upsert(txCtx, token); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetDecryptedToken retrieves and decrypts the stored token of one type.
func (i *integrationUseCase) GetDecryptedToken(
	ctx context.Context,
	user *identityDomain.User,
	integrationID uuid.UUID,
	tokenType integrationDomain.TokenType,
) (*integrationDomain.IntegrationToken, error) {
	if !tokenType.IsValid() {
		return nil, integrationDomain.ErrInvalidTokenType
	}

	integration, err := i.integrationRepo.GetByID(ctx, user.ID, integrationID)
	if err != nil {
		return nil, err
	}

	token, err := i.tokenRepo.GetByType(ctx, integration.ID, tokenType)
	if err != nil {
		return nil, err
	}

	plaintext, err := i.codec.DecryptForIdentity(user.GoogleID, user.EncryptionSalt, token.EncryptedToken)
	if err != nil {
		return nil, err
	}
	token.Token = plaintext

	return token, nil
}

// RecordSyncResult updates the sync tracking fields after a sync run.
func (i *integrationUseCase) RecordSyncResult(
	ctx context.Context,
	userID uuid.UUID,
	integrationID uuid.UUID,
	syncError string,
) error {
	integration, err := i.integrationRepo.GetByID(ctx, userID, integrationID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	integration.LastSyncAt = &now
	integration.LastSyncError = syncError
	if syncError == "" {
		integration.Status = integrationDomain.StatusConnected
	} else {
		integration.Status = integrationDomain.StatusError
	}

	return i.integrationRepo.UpdateStatus(ctx, integration)
}

// Disconnect removes the integration's tokens and marks it disconnected.
func (i *integrationUseCase) Disconnect(
	ctx context.Context,
	userID uuid.UUID,
	integrationID uuid.UUID,
) error {
	integration, err := i.integrationRepo.GetByID(ctx, userID, integrationID)
	if err != nil {
		return err
	}

	return i.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := i.tokenRepo.DeleteByIntegration(txCtx, integration.ID); err != nil {
			return err
		}

		integration.Status = integrationDomain.StatusDisconnected
		integration.LastSyncError = ""
		return i.integrationRepo.UpdateStatus(txCtx, integration)
	})
}

// encryptTokens runs every token value through the codec under the user's
// master key.
func (i *integrationUseCase) encryptTokens(
	user *identityDomain.User,
	integrationID uuid.UUID,
	tokens []TokenInput,
) ([]*integrationDomain.IntegrationToken, error) {
	encrypted := make([]*integrationDomain.IntegrationToken, 0, len(tokens))
	for _, input := range tokens {
		blob, err := i.codec.EncryptForIdentity(user.GoogleID, user.EncryptionSalt, input.Value)
		if err != nil {
			return nil, err
		}
		encrypted = append(encrypted, &integrationDomain.IntegrationToken{
			ID:             uuid.Must(uuid.NewV7()),
			IntegrationID:  integrationID,
			TokenType:      input.Type,
			EncryptedToken: blob,
			ExpiresAt:      input.ExpiresAt,
		})
	}
	return encrypted, nil
}
