// Package usecase implements the vault business logic. It coordinates the
// envelope codec, repositories, and domain rules so that user content is
// always encrypted before it reaches the database and decrypted only for its
// owner.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/allisson/datavault/internal/identity/domain"
	vaultDomain "github.com/allisson/datavault/internal/vault/domain"
)

// ItemRepository defines vault item persistence operations.
type ItemRepository interface {
	Create(ctx context.Context, item *vaultDomain.VaultItem) error
	GetByID(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) (*vaultDomain.VaultItem, error)
	List(ctx context.Context, userID uuid.UUID, filter vaultDomain.ItemFilter, offset, limit int) ([]*vaultDomain.VaultItem, int, error)
	Update(ctx context.Context, item *vaultDomain.VaultItem) error
	SoftDelete(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) (time.Time, error)
	ReplaceTags(ctx context.Context, itemID uuid.UUID, tagIDs []uuid.UUID) error
}

// TagRepository defines tag persistence operations.
type TagRepository interface {
	Create(ctx context.Context, tag *vaultDomain.Tag) error
	GetByID(ctx context.Context, userID uuid.UUID, tagID uuid.UUID) (*vaultDomain.Tag, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*vaultDomain.Tag, error)
	Update(ctx context.Context, tag *vaultDomain.Tag) error
	Delete(ctx context.Context, userID uuid.UUID, tagID uuid.UUID) error
	GetOrCreateByNames(ctx context.Context, userID uuid.UUID, names []string) ([]*vaultDomain.Tag, error)
}

// CreateItemInput carries the fields for a new vault item.
type CreateItemInput struct {
	Type     vaultDomain.ItemType
	Source   vaultDomain.ItemSource
	SourceID string
	Title    string
	Content  string
	Metadata map[string]any
	Tags     []string
}

// UpdateItemInput carries the fields to change on a vault item. Nil pointers
// mean "leave unchanged".
type UpdateItemInput struct {
	Type     *vaultDomain.ItemType
	Title    *string
	Content  *string
	Metadata map[string]any
	Tags     []string
}

// ItemPage is one page of a vault item listing.
type ItemPage struct {
	Items    []*vaultDomain.VaultItem
	Total    int
	Page     int
	PageSize int
	HasMore  bool
}

// ItemUseCase defines the vault item business logic. Every operation takes
// the authenticated owner; decrypted content never crosses user boundaries.
type ItemUseCase interface {
	CreateItem(ctx context.Context, user *identityDomain.User, input CreateItemInput) (*vaultDomain.VaultItem, error)
	GetItem(ctx context.Context, user *identityDomain.User, itemID uuid.UUID) (*vaultDomain.VaultItem, error)
	ListItems(ctx context.Context, user *identityDomain.User, filter vaultDomain.ItemFilter, page, pageSize int) (*ItemPage, error)
	UpdateItem(ctx context.Context, user *identityDomain.User, itemID uuid.UUID, input UpdateItemInput) (*vaultDomain.VaultItem, error)
	DeleteItem(ctx context.Context, user *identityDomain.User, itemID uuid.UUID) (time.Time, error)
}

// CreateTagInput carries the fields for a new tag.
type CreateTagInput struct {
	Name  string
	Color string
}

// UpdateTagInput carries the fields to change on a tag. Nil pointers mean
// "leave unchanged".
type UpdateTagInput struct {
	Name  *string
	Color *string
}

// TagUseCase defines the tag business logic.
type TagUseCase interface {
	CreateTag(ctx context.Context, userID uuid.UUID, input CreateTagInput) (*vaultDomain.Tag, error)
	GetTag(ctx context.Context, userID uuid.UUID, tagID uuid.UUID) (*vaultDomain.Tag, error)
	ListTags(ctx context.Context, userID uuid.UUID) ([]*vaultDomain.Tag, error)
	UpdateTag(ctx context.Context, userID uuid.UUID, tagID uuid.UUID, input UpdateTagInput) (*vaultDomain.Tag, error)
	DeleteTag(ctx context.Context, userID uuid.UUID, tagID uuid.UUID) error
}
