// Package usecase implements the integration business logic: connecting
// providers, storing OAuth tokens encrypted with the user's master key, and
// tracking sync state.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	integrationDomain "github.com/allisson/datavault/internal/integration/domain"
	identityDomain "github.com/allisson/datavault/internal/identity/domain"
)

// IntegrationRepository defines integration persistence operations.
type IntegrationRepository interface {
	Create(ctx context.Context, integration *integrationDomain.Integration) error
	GetByID(ctx context.Context, userID uuid.UUID, integrationID uuid.UUID) (*integrationDomain.Integration, error)
	GetByProvider(ctx context.Context, userID uuid.UUID, provider integrationDomain.Provider) (*integrationDomain.Integration, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*integrationDomain.Integration, error)
	UpdateStatus(ctx context.Context, integration *integrationDomain.Integration) error
	Delete(ctx context.Context, userID uuid.UUID, integrationID uuid.UUID) error
}

// TokenRepository defines integration token persistence operations. Token
// values cross this boundary encrypted.
type TokenRepository interface {
	Upsert(ctx context.Context, token *integrationDomain.IntegrationToken) error
	GetByType(ctx context.Context, integrationID uuid.UUID, tokenType integrationDomain.TokenType) (*integrationDomain.IntegrationToken, error)
	DeleteByIntegration(ctx context.Context, integrationID uuid.UUID) error
}

// TokenInput is one OAuth token to store, in plaintext.
type TokenInput struct {
	Type      integrationDomain.TokenType
	Value     string
	ExpiresAt *time.Time
}

// ConnectInput carries the data needed to connect a provider.
type ConnectInput struct {
	Provider         integrationDomain.Provider
	ProviderMetadata map[string]any
	Tokens           []TokenInput
}

// IntegrationUseCase defines the integration business operations. All
// operations are scoped to the authenticated user.
type IntegrationUseCase interface {
	// Connect creates an integration for a provider and stores its initial
	// tokens. A user has at most one integration per provider.
	Connect(ctx context.Context, user *identityDomain.User, input ConnectInput) (*integrationDomain.Integration, error)

	// GetIntegration retrieves one integration of the user.
	GetIntegration(ctx context.Context, userID uuid.UUID, integrationID uuid.UUID) (*integrationDomain.Integration, error)

	// ListIntegrations retrieves all integrations of the user.
	ListIntegrations(ctx context.Context, userID uuid.UUID) ([]*integrationDomain.Integration, error)

	// StoreTokens encrypts and stores tokens for an existing integration,
	// replacing tokens of the same type. Used on every provider token
	// refresh.
	StoreTokens(ctx context.Context, user *identityDomain.User, integrationID uuid.UUID, tokens []TokenInput) error

	// GetDecryptedToken retrieves and decrypts the stored token of one type.
	GetDecryptedToken(ctx context.Context, user *identityDomain.User, integrationID uuid.UUID, tokenType integrationDomain.TokenType) (*integrationDomain.IntegrationToken, error)

	// RecordSyncResult updates the sync tracking fields after a sync run.
	// An empty syncError marks the integration connected; otherwise the
	// status flips to error.
	RecordSyncResult(ctx context.Context, userID uuid.UUID, integrationID uuid.UUID, syncError string) error

	// Disconnect removes the integration's tokens and marks it
	// disconnected. The integration row survives so a reconnect keeps its
	// history.
	Disconnect(ctx context.Context, userID uuid.UUID, integrationID uuid.UUID) error
}
