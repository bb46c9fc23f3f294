package usecase

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/datavault/internal/validation"
	vaultDomain "github.com/allisson/datavault/internal/vault/domain"
)

// hexColorRegex matches colors like "#FF5733". Empty colors are allowed and
// skipped by the Match rule.
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// tagUseCase implements the TagUseCase interface.
type tagUseCase struct {
	tagRepo TagRepository
}

// NewTagUseCase creates a new tag use case.
func NewTagUseCase(tagRepo TagRepository) TagUseCase {
	return &tagUseCase{tagRepo: tagRepo}
}

func validateTagFields(name, color string) error {
	err := validation.Errors{
		"name": validation.Validate(name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 50).Error("name must be between 1 and 50 characters"),
		),
		"color": validation.Validate(color,
			validation.Match(hexColorRegex).Error("color must be a hex code like #FF5733"),
		),
	}.Filter()
	return appValidation.WrapValidationError(err)
}

// CreateTag creates a new tag for the user.
func (u *tagUseCase) CreateTag(
	ctx context.Context,
	userID uuid.UUID,
	input CreateTagInput,
) (*vaultDomain.Tag, error) {
	if err := validateTagFields(input.Name, input.Color); err != nil {
		return nil, err
	}

	tag := &vaultDomain.Tag{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		Name:      input.Name,
		Color:     input.Color,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// GetTag retrieves a tag owned by the user.
func (u *tagUseCase) GetTag(
	ctx context.Context,
	userID uuid.UUID,
	tagID uuid.UUID,
) (*vaultDomain.Tag, error) {
	return u.tagRepo.GetByID(ctx, userID, tagID)
}

// ListTags retrieves all tags for the user, sorted by name.
func (u *tagUseCase) ListTags(ctx context.Context, userID uuid.UUID) ([]*vaultDomain.Tag, error) {
	return u.tagRepo.ListByUser(ctx, userID)
}

// UpdateTag applies the requested changes to a tag.
func (u *tagUseCase) UpdateTag(
	ctx context.Context,
	userID uuid.UUID,
	tagID uuid.UUID,
	input UpdateTagInput,
) (*vaultDomain.Tag, error) {
	tag, err := u.tagRepo.GetByID(ctx, userID, tagID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		tag.Name = *input.Name
	}
	if input.Color != nil {
		tag.Color = *input.Color
	}
	if err := validateTagFields(tag.Name, tag.Color); err != nil {
		return nil, err
	}

	if err := u.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes a tag and its item associations.
func (u *tagUseCase) DeleteTag(ctx context.Context, userID uuid.UUID, tagID uuid.UUID) error {
	return u.tagRepo.Delete(ctx, userID, tagID)
}
