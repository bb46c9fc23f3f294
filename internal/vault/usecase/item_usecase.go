package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/allisson/datavault/internal/crypto/service"
	"github.com/allisson/datavault/internal/database"
	apperrors "github.com/allisson/datavault/internal/errors"
	identityDomain "github.com/allisson/datavault/internal/identity/domain"
	vaultDomain "github.com/allisson/datavault/internal/vault/domain"
)

// itemUseCase implements the ItemUseCase interface.
type itemUseCase struct {
	txManager       database.TxManager
	itemRepo        ItemRepository
	tagRepo         TagRepository
	codec           cryptoService.Codec
	maxContentBytes int
}

// NewItemUseCase creates a new vault item use case. maxContentBytes bounds
// the plaintext content size accepted per item.
func NewItemUseCase(
	txManager database.TxManager,
	itemRepo ItemRepository,
	tagRepo TagRepository,
	codec cryptoService.Codec,
	maxContentBytes int,
) ItemUseCase {
	return &itemUseCase{
		txManager:       txManager,
		itemRepo:        itemRepo,
		tagRepo:         tagRepo,
		codec:           codec,
		maxContentBytes: maxContentBytes,
	}
}

// CreateItem encrypts the content and metadata with the owner's master key
// and persists the item together with its tag associations.
func (u *itemUseCase) CreateItem(
	ctx context.Context,
	user *identityDomain.User,
	input CreateItemInput,
) (*vaultDomain.VaultItem, error) {
	if input.Type == "" {
		input.Type = vaultDomain.ItemTypeNote
	}
	if input.Source == "" {
		input.Source = vaultDomain.ItemSourceManual
	}
	if !input.Type.IsValid() {
		return nil, vaultDomain.ErrInvalidItemType
	}
	if !input.Source.IsValid() {
		return nil, vaultDomain.ErrInvalidItemSource
	}
	if len(input.Content) > u.maxContentBytes {
		return nil, vaultDomain.ErrContentTooLarge
	}

	encryptedContent, err := u.codec.EncryptForIdentity(user.GoogleID, user.EncryptionSalt, input.Content)
	if err != nil {
		return nil, err
	}

	encryptedMetadata, err := u.encryptMetadata(user, input.Metadata)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &vaultDomain.VaultItem{
		ID:                uuid.Must(uuid.NewV7()),
		UserID:            user.ID,
		Type:              input.Type,
		Source:            input.Source,
		SourceID:          input.SourceID,
		Title:             input.Title,
		EncryptedContent:  encryptedContent,
		EncryptedMetadata: encryptedMetadata,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.itemRepo.Create(txCtx, item); err != nil {
			return err
		}
		return u.applyTags(txCtx, user.ID, item, input.Tags)
	})
	if err != nil {
		return nil, err
	}

	item.Content = input.Content
	item.Metadata = input.Metadata
	return item, nil
}

// GetItem retrieves and decrypts a vault item owned by the user.
func (u *itemUseCase) GetItem(
	ctx context.Context,
	user *identityDomain.User,
	itemID uuid.UUID,
) (*vaultDomain.VaultItem, error) {
	item, err := u.itemRepo.GetByID(ctx, user.ID, itemID)
	if err != nil {
		return nil, err
	}

	if err := u.decryptItem(user, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems retrieves one page of the user's vault items, newest first, with
// every item decrypted.
func (u *itemUseCase) ListItems(
	ctx context.Context,
	user *identityDomain.User,
	filter vaultDomain.ItemFilter,
	page, pageSize int,
) (*ItemPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	items, total, err := u.itemRepo.List(ctx, user.ID, filter, offset, pageSize)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := u.decryptItem(user, item); err != nil {
			return nil, err
		}
	}

	return &ItemPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  offset+pageSize < total,
	}, nil
}

// UpdateItem applies the requested changes, re-encrypting content or metadata
// when they change.
func (u *itemUseCase) UpdateItem(
	ctx context.Context,
	user *identityDomain.User,
	itemID uuid.UUID,
	input UpdateItemInput,
) (*vaultDomain.VaultItem, error) {
	item, err := u.itemRepo.GetByID(ctx, user.ID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, vaultDomain.ErrInvalidItemType
		}
		item.Type = *input.Type
	}
	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Content != nil {
		if len(*input.Content) > u.maxContentBytes {
			return nil, vaultDomain.ErrContentTooLarge
		}
		encryptedContent, err := u.codec.EncryptForIdentity(user.GoogleID, user.EncryptionSalt, *input.Content)
		if err != nil {
			return nil, err
		}
		item.EncryptedContent = encryptedContent
	}
	if input.Metadata != nil {
		encryptedMetadata, err := u.encryptMetadata(user, input.Metadata)
		if err != nil {
			return nil, err
		}
		item.EncryptedMetadata = encryptedMetadata
	}

	err = u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.itemRepo.Update(txCtx, item); err != nil {
			return err
		}
		if input.Tags != nil {
			return u.applyTags(txCtx, user.ID, item, input.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := u.decryptItem(user, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem soft-deletes a vault item and returns the deletion time.
func (u *itemUseCase) DeleteItem(
	ctx context.Context,
	user *identityDomain.User,
	itemID uuid.UUID,
) (time.Time, error) {
	return u.itemRepo.SoftDelete(ctx, user.ID, itemID)
}

// encryptMetadata serializes and encrypts the metadata map, returning the
// empty string when there is no metadata.
func (u *itemUseCase) encryptMetadata(
	user *identityDomain.User,
	metadata map[string]any,
) (string, error) {
	if len(metadata) == 0 {
		return "", nil
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal metadata")
	}
	return u.codec.EncryptForIdentity(user.GoogleID, user.EncryptionSalt, string(raw))
}

// decryptItem fills the in-memory Content and Metadata fields.
func (u *itemUseCase) decryptItem(user *identityDomain.User, item *vaultDomain.VaultItem) error {
	content, err := u.codec.DecryptForIdentity(user.GoogleID, user.EncryptionSalt, item.EncryptedContent)
	if err != nil {
		return err
	}
	item.Content = content

	if item.EncryptedMetadata == "" {
		return nil
	}

	raw, err := u.codec.DecryptForIdentity(user.GoogleID, user.EncryptionSalt, item.EncryptedMetadata)
	if err != nil {
		return err
	}

	var metadata map[string]any
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal metadata")
	}
	item.Metadata = metadata
	return nil
}

// applyTags resolves tag names (creating missing tags) and rewrites the
// item's associations. It also refreshes the in-memory tag list.
func (u *itemUseCase) applyTags(
	ctx context.Context,
	userID uuid.UUID,
	item *vaultDomain.VaultItem,
	names []string,
) error {
	tags, err := u.tagRepo.GetOrCreateByNames(ctx, userID, names)
	if err != nil {
		return err
	}

	tagIDs := make([]uuid.UUID, 0, len(tags))
	tagNames := make([]string, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
		tagNames = append(tagNames, tag.Name)
	}

	if err := u.itemRepo.ReplaceTags(ctx, item.ID, tagIDs); err != nil {
		return err
	}
	item.Tags = tagNames
	return nil
}
