package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/allisson/datavault/internal/identity/domain"
	identityUseCase "github.com/allisson/datavault/internal/identity/usecase"
)

type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) GetOrCreateUser(
	ctx context.Context,
	profile identityUseCase.OAuthProfile,
) (*identityDomain.User, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

func (m *MockUserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*identityDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

func TestRunCreateUser(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	user := &identityDomain.User{
		ID:             uuid.Must(uuid.NewV7()),
		GoogleID:       "google-sub-123",
		Email:          "user@example.com",
		Name:           "Test User",
		EncryptionSalt: strings.Repeat("ab", 32),
	}

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &MockUserUseCase{}
		mockUseCase.On("GetOrCreateUser", ctx, identityUseCase.OAuthProfile{
			GoogleID: "google-sub-123",
			Email:    "user@example.com",
			Name:     "Test User",
		}).Return(user, nil)

		var out bytes.Buffer
		err := RunCreateUser(ctx, mockUseCase, logger, &out, "google-sub-123", "user@example.com", "Test User", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), user.ID.String())
		require.Contains(t, out.String(), "user@example.com")
		require.NotContains(t, out.String(), user.EncryptionSalt)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &MockUserUseCase{}
		mockUseCase.On("GetOrCreateUser", ctx, mock.Anything).Return(user, nil)

		var out bytes.Buffer
		err := RunCreateUser(ctx, mockUseCase, logger, &out, "google-sub-123", "user@example.com", "Test User", "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"email": "user@example.com"`)
		require.NotContains(t, out.String(), user.EncryptionSalt)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-profile", func(t *testing.T) {
		mockUseCase := &MockUserUseCase{}
		mockUseCase.On("GetOrCreateUser", ctx, mock.Anything).
			Return(nil, identityDomain.ErrGoogleIDRequired)

		var out bytes.Buffer
		err := RunCreateUser(ctx, mockUseCase, logger, &out, "", "user@example.com", "", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create user")
	})
}
