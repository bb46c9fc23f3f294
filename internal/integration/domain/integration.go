// Package domain contains the integration domain models: connections to
// external health data providers and their encrypted OAuth tokens.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifies an external service a user can connect.
type Provider string

const (
	ProviderEpic        Provider = "epic"
	ProviderFitbit      Provider = "fitbit"
	ProviderAppleHealth Provider = "apple_health"
)

// IsValid reports whether the provider is a known value.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderEpic, ProviderFitbit, ProviderAppleHealth:
		return true
	}
	return false
}

// Status is the connection state of an integration.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
	StatusSyncing      Status = "syncing"
)

// IsValid reports whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusConnected, StatusDisconnected, StatusError, StatusSyncing:
		return true
	}
	return false
}

// TokenType distinguishes the OAuth tokens stored for an integration.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access_token"
	TokenTypeRefresh TokenType = "refresh_token"
	TokenTypeID      TokenType = "id_token"
)

// IsValid reports whether the token type is a known value.
func (t TokenType) IsValid() bool {
	switch t {
	case TokenTypeAccess, TokenTypeRefresh, TokenTypeID:
		return true
	}
	return false
}

// Integration tracks one user's connection to an external provider. A user
// has at most one integration per provider.
type Integration struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Provider Provider  `json:"provider"`
	Status   Status    `json:"status"`

	// ProviderMetadata holds provider-specific connection details such as
	// the FHIR base URL or the external patient ID. Never secrets.
	ProviderMetadata map[string]any `json:"provider_metadata"`

	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	LastSyncError string     `json:"last_sync_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IntegrationToken is one OAuth token of an integration. The token value is
// encrypted with the owning user's master key before it reaches storage.
type IntegrationToken struct {
	ID             uuid.UUID `json:"id"`
	IntegrationID  uuid.UUID `json:"integration_id"`
	TokenType      TokenType `json:"token_type"`
	EncryptedToken string    `json:"-"`

	// Token is the decrypted value, populated only on reads that went
	// through the codec.
	Token string `json:"-"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsExpired reports whether the token has an expiry in the past.
func (t *IntegrationToken) IsExpired() bool {
	return t.ExpiresAt != nil && time.Now().UTC().After(*t.ExpiresAt)
}
