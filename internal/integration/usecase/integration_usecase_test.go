package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/datavault/internal/errors"
	identityDomain "github.com/allisson/datavault/internal/identity/domain"
	integrationDomain "github.com/allisson/datavault/internal/integration/domain"
)

type passthroughTxManager struct{}

func (p *passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// reversibleCodec prefixes the plaintext with the identity secret so tests
// can assert what was encrypted and for whom.
type reversibleCodec struct{}

func (r *reversibleCodec) EncryptForIdentity(identitySecret, saltHex, plaintext string) (string, error) {
	return "enc:" + identitySecret + ":" + plaintext, nil
}

func (r *reversibleCodec) DecryptForIdentity(identitySecret, saltHex, encoded string) (string, error) {
	prefix := "enc:" + identitySecret + ":"
	if !strings.HasPrefix(encoded, prefix) {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "data integrity check failed")
	}
	return strings.TrimPrefix(encoded, prefix), nil
}

type MockIntegrationRepository struct {
	mock.Mock
}

func (m *MockIntegrationRepository) Create(ctx context.Context, integration *integrationDomain.Integration) error {
	args := m.Called(ctx, integration)
	return args.Error(0)
}

func (m *MockIntegrationRepository) GetByID(ctx context.Context, userID uuid.UUID, integrationID uuid.UUID) (*integrationDomain.Integration, error) {
	args := m.Called(ctx, userID, integrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationDomain.Integration), args.Error(1)
}

func (m *MockIntegrationRepository) GetByProvider(ctx context.Context, userID uuid.UUID, provider integrationDomain.Provider) (*integrationDomain.Integration, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationDomain.Integration), args.Error(1)
}

func (m *MockIntegrationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*integrationDomain.Integration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*integrationDomain.Integration), args.Error(1)
}

func (m *MockIntegrationRepository) UpdateStatus(ctx context.Context, integration *integrationDomain.Integration) error {
	args := m.Called(ctx, integration)
	return args.Error(0)
}

func (m *MockIntegrationRepository) Delete(ctx context.Context, userID uuid.UUID, integrationID uuid.UUID) error {
	args := m.Called(ctx, userID, integrationID)
	return args.Error(0)
}

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Upsert(ctx context.Context, token *integrationDomain.IntegrationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) GetByType(ctx context.Context, integrationID uuid.UUID, tokenType integrationDomain.TokenType) (*integrationDomain.IntegrationToken, error) {
	args := m.Called(ctx, integrationID, tokenType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationDomain.IntegrationToken), args.Error(1)
}

func (m *MockTokenRepository) DeleteByIntegration(ctx context.Context, integrationID uuid.UUID) error {
	args := m.Called(ctx, integrationID)
	return args.Error(0)
}

func testOwner() *identityDomain.User {
	return &identityDomain.User{
		ID:             uuid.Must(uuid.NewV7()),
		GoogleID:       "google-sub-123",
		Email:          "jane@example.com",
		EncryptionSalt: strings.Repeat("ab", 32),
	}
}

func newIntegrationUseCase(
	integrationRepo *MockIntegrationRepository,
	tokenRepo *MockTokenRepository,
) IntegrationUseCase {
	return NewIntegrationUseCase(&passthroughTxManager{}, integrationRepo, tokenRepo, &reversibleCodec{})
}

func TestIntegrationUseCase_Connect(t *testing.T) {
	t.Run("creates integration with encrypted tokens", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)
		user := testOwner()

		var created *integrationDomain.Integration
		integrationRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Integration")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*integrationDomain.Integration)
			}).
			Return(nil)

		var storedTokens []*integrationDomain.IntegrationToken
		tokenRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.IntegrationToken")).
			Run(func(args mock.Arguments) {
				storedTokens = append(storedTokens, args.Get(1).(*integrationDomain.IntegrationToken))
			}).
			Return(nil)

		expiry := time.Now().UTC().Add(time.Hour)
		integration, err := uc.Connect(context.Background(), user, ConnectInput{
			Provider:         integrationDomain.ProviderFitbit,
			ProviderMetadata: map[string]any{"scope": "activity heartrate"},
			Tokens: []TokenInput{
				{Type: integrationDomain.TokenTypeAccess, Value: "fitbit-access", ExpiresAt: &expiry},
				{Type: integrationDomain.TokenTypeRefresh, Value: "fitbit-refresh"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, integrationDomain.StatusConnected, integration.Status)
		assert.Equal(t, user.ID, integration.UserID)

		require.NotNil(t, created)
		require.Len(t, storedTokens, 2)
		assert.Equal(t, "enc:google-sub-123:fitbit-access", storedTokens[0].EncryptedToken)
		assert.Equal(t, "enc:google-sub-123:fitbit-refresh", storedTokens[1].EncryptedToken)
		assert.Equal(t, created.ID, storedTokens[0].IntegrationID)
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)

		_, err := uc.Connect(context.Background(), testOwner(), ConnectInput{
			Provider: integrationDomain.Provider("google_fit"),
		})
		assert.ErrorIs(t, err, integrationDomain.ErrInvalidProvider)
		integrationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown token type", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)

		_, err := uc.Connect(context.Background(), testOwner(), ConnectInput{
			Provider: integrationDomain.ProviderEpic,
			Tokens:   []TokenInput{{Type: integrationDomain.TokenType("session"), Value: "x"}},
		})
		assert.ErrorIs(t, err, integrationDomain.ErrInvalidTokenType)
	})

	t.Run("second integration for the same provider conflicts", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)

		integrationRepo.On("Create", mock.Anything, mock.Anything).
			Return(integrationDomain.ErrIntegrationAlreadyExists)

		_, err := uc.Connect(context.Background(), testOwner(), ConnectInput{
			Provider: integrationDomain.ProviderEpic,
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestIntegrationUseCase_StoreTokens(t *testing.T) {
	t.Run("encrypts and upserts for an owned integration", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)
		user := testOwner()

		integration := &integrationDomain.Integration{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: user.ID,
		}
		integrationRepo.On("GetByID", mock.Anything, user.ID, integration.ID).Return(integration, nil)

		var stored *integrationDomain.IntegrationToken
		tokenRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.IntegrationToken")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*integrationDomain.IntegrationToken)
			}).
			Return(nil)

		err := uc.StoreTokens(context.Background(), user, integration.ID, []TokenInput{
			{Type: integrationDomain.TokenTypeAccess, Value: "rotated-access"},
		})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "enc:google-sub-123:rotated-access", stored.EncryptedToken)
	})

	t.Run("unknown integration fails before any write", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)
		user := testOwner()
		integrationID := uuid.Must(uuid.NewV7())

		integrationRepo.On("GetByID", mock.Anything, user.ID, integrationID).
			Return(nil, integrationDomain.ErrIntegrationNotFound)

		err := uc.StoreTokens(context.Background(), user, integrationID, []TokenInput{
			{Type: integrationDomain.TokenTypeAccess, Value: "x"},
		})
		assert.ErrorIs(t, err, integrationDomain.ErrIntegrationNotFound)
		tokenRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestIntegrationUseCase_GetDecryptedToken(t *testing.T) {
	t.Run("decrypts the stored token", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)
		user := testOwner()

		integration := &integrationDomain.Integration{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: user.ID,
		}
		integrationRepo.On("GetByID", mock.Anything, user.ID, integration.ID).Return(integration, nil)
		tokenRepo.On("GetByType", mock.Anything, integration.ID, integrationDomain.TokenTypeRefresh).
			Return(&integrationDomain.IntegrationToken{
				IntegrationID:  integration.ID,
				TokenType:      integrationDomain.TokenTypeRefresh,
				EncryptedToken: "enc:google-sub-123:fitbit-refresh",
			}, nil)

		token, err := uc.GetDecryptedToken(context.Background(), user, integration.ID, integrationDomain.TokenTypeRefresh)
		require.NoError(t, err)
		assert.Equal(t, "fitbit-refresh", token.Token)
	})

	t.Run("token encrypted for another identity fails", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)
		user := testOwner()

		integration := &integrationDomain.Integration{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: user.ID,
		}
		integrationRepo.On("GetByID", mock.Anything, user.ID, integration.ID).Return(integration, nil)
		tokenRepo.On("GetByType", mock.Anything, integration.ID, integrationDomain.TokenTypeAccess).
			Return(&integrationDomain.IntegrationToken{
				EncryptedToken: "enc:someone-else:stolen",
			}, nil)

		_, err := uc.GetDecryptedToken(context.Background(), user, integration.ID, integrationDomain.TokenTypeAccess)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("missing token", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)
		user := testOwner()

		integration := &integrationDomain.Integration{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: user.ID,
		}
		integrationRepo.On("GetByID", mock.Anything, user.ID, integration.ID).Return(integration, nil)
		tokenRepo.On("GetByType", mock.Anything, integration.ID, integrationDomain.TokenTypeID).
			Return(nil, integrationDomain.ErrTokenNotFound)

		_, err := uc.GetDecryptedToken(context.Background(), user, integration.ID, integrationDomain.TokenTypeID)
		assert.ErrorIs(t, err, integrationDomain.ErrTokenNotFound)
	})
}

func TestIntegrationUseCase_RecordSyncResult(t *testing.T) {
	t.Run("successful sync marks connected", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)
		userID := uuid.Must(uuid.NewV7())

		integration := &integrationDomain.Integration{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: userID,
			Status: integrationDomain.StatusSyncing,
		}
		integrationRepo.On("GetByID", mock.Anything, userID, integration.ID).Return(integration, nil)
		integrationRepo.On("UpdateStatus", mock.Anything, integration).Return(nil)

		err := uc.RecordSyncResult(context.Background(), userID, integration.ID, "")
		require.NoError(t, err)
		assert.Equal(t, integrationDomain.StatusConnected, integration.Status)
		assert.NotNil(t, integration.LastSyncAt)
		assert.Empty(t, integration.LastSyncError)
	})

	t.Run("failed sync marks error", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)
		userID := uuid.Must(uuid.NewV7())

		integration := &integrationDomain.Integration{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: userID,
			Status: integrationDomain.StatusConnected,
		}
		integrationRepo.On("GetByID", mock.Anything, userID, integration.ID).Return(integration, nil)
		integrationRepo.On("UpdateStatus", mock.Anything, integration).Return(nil)

		err := uc.RecordSyncResult(context.Background(), userID, integration.ID, "provider returned 503")
		require.NoError(t, err)
		assert.Equal(t, integrationDomain.StatusError, integration.Status)
		assert.Equal(t, "provider returned 503", integration.LastSyncError)
	})
}

func TestIntegrationUseCase_Disconnect(t *testing.T) {
	t.Run("removes tokens and marks disconnected", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)
		userID := uuid.Must(uuid.NewV7())

		integration := &integrationDomain.Integration{
			ID:            uuid.Must(uuid.NewV7()),
			UserID:        userID,
			Status:        integrationDomain.StatusConnected,
			LastSyncError: "provider returned 503",
		}
		integrationRepo.On("GetByID", mock.Anything, userID, integration.ID).Return(integration, nil)
		tokenRepo.On("DeleteByIntegration", mock.Anything, integration.ID).Return(nil)
		integrationRepo.On("UpdateStatus", mock.Anything, integration).Return(nil)

		err := uc.Disconnect(context.Background(), userID, integration.ID)
		require.NoError(t, err)
		assert.Equal(t, integrationDomain.StatusDisconnected, integration.Status)
		assert.Empty(t, integration.LastSyncError)
	})

	t.Run("unknown integration", func(t *testing.T) {
		integrationRepo := &MockIntegrationRepository{}
		tokenRepo := &MockTokenRepository{}
		uc := newIntegrationUseCase(integrationRepo, tokenRepo)
		userID := uuid.Must(uuid.NewV7())
		integrationID := uuid.Must(uuid.NewV7())

		integrationRepo.On("GetByID", mock.Anything, userID, integrationID).
			Return(nil, integrationDomain.ErrIntegrationNotFound)

		err := uc.Disconnect(context.Background(), userID, integrationID)
		assert.ErrorIs(t, err, integrationDomain.ErrIntegrationNotFound)
		tokenRepo.AssertNotCalled(t, "DeleteByIntegration", mock.Anything, mock.Anything)
	})
}

func TestIntegrationUseCase_List(t *testing.T) {
	integrationRepo := &MockIntegrationRepository{}
	tokenRepo := &MockTokenRepository{}
	uc := newIntegrationUseCase(integrationRepo, tokenRepo)
	userID := uuid.Must(uuid.NewV7())

	integrations := []*integrationDomain.Integration{
		{ID: uuid.Must(uuid.NewV7()), Provider: integrationDomain.ProviderEpic},
		{ID: uuid.Must(uuid.NewV7()), Provider: integrationDomain.ProviderFitbit},
	}
	integrationRepo.On("ListByUser", mock.Anything, userID).Return(integrations, nil)

	got, err := uc.ListIntegrations(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
