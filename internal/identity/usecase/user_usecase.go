// Package usecase implements the identity business logic and orchestrates user
// domain operations.
package usecase

import (
	"context"
	"errors"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	apperrors "github.com/allisson/datavault/internal/errors"
	"github.com/allisson/datavault/internal/identity/domain"
	appValidation "github.com/allisson/datavault/internal/validation"
)

// OAuthProfile is the identity profile delivered by the session layer after a
// completed and verified OAuth login. The core trusts these values; verifying
// that the profile genuinely belongs to the caller is the session layer's job.
type OAuthProfile struct {
	GoogleID   string `json:"google_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	PictureURL string `json:"picture_url"`
}

// UseCase defines the interface for identity business logic operations.
type UseCase interface {
	// GetOrCreateUser returns the user for an OAuth profile, creating the
	// record (with a freshly generated encryption salt) on first login.
	GetOrCreateUser(ctx context.Context, profile OAuthProfile) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// UserRepository defines user repository operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
}

// UserUseCase handles identity-related business logic.
type UserUseCase struct {
	userRepo UserRepository
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
	}
}

// validateOAuthProfile validates the profile delivered by the session layer.
func (uc *UserUseCase) validateOAuthProfile(profile OAuthProfile) error {
	err := validation.ValidateStruct(&profile,
		validation.Field(&profile.GoogleID,
			validation.Required.Error("google id is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("google id must be between 1 and 255 characters"),
		),
		validation.Field(&profile.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&profile.Name,
			validation.Length(0, 255).Error("name must be at most 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// GetOrCreateUser returns the user matching the OAuth profile's subject
// identifier, creating the record on first login.
//
// On creation, a fresh random 32-byte encryption salt is generated and
// persisted before the user can encrypt anything. The salt is generated
// exactly once for the lifetime of the identity; subsequent logins refresh
// the mutable profile fields but never touch the salt.
func (uc *UserUseCase) GetOrCreateUser(ctx context.Context, profile OAuthProfile) (*domain.User, error) {
	if err := uc.validateOAuthProfile(profile); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByGoogleID(ctx, profile.GoogleID)
	if err == nil {
		return uc.refreshProfile(ctx, user, profile)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	salt, err := cryptoDomain.NewEncryptionSalt()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate encryption salt")
	}

	user = &domain.User{
		ID:             uuid.Must(uuid.NewV7()),
		GoogleID:       profile.GoogleID,
		Email:          profile.Email,
		Name:           profile.Name,
		PictureURL:     profile.PictureURL,
		EncryptionSalt: salt,
		Preferences:    map[string]any{},
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent first login for the same identity;
		// the winner's salt is authoritative.
		if errors.Is(err, apperrors.ErrConflict) {
			return uc.userRepo.GetByGoogleID(ctx, profile.GoogleID)
		}
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by their internal ID.
func (uc *UserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// refreshProfile updates mutable profile fields when they changed upstream.
func (uc *UserUseCase) refreshProfile(
	ctx context.Context,
	user *domain.User,
	profile OAuthProfile,
) (*domain.User, error) {
	if user.Email == profile.Email && user.Name == profile.Name && user.PictureURL == profile.PictureURL {
		return user, nil
	}

	user.Email = profile.Email
	user.Name = profile.Name
	user.PictureURL = profile.PictureURL

	if err := uc.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
