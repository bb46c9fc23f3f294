// Package domain defines the core domain models for the encrypted vault.
// Vault items carry user data encrypted with the owner's master key; only the
// title is stored in plaintext so that listing and search stay usable without
// decrypting every row.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemType classifies the kind of data a vault item holds.
type ItemType string

// Supported vault item types.
const (
	ItemTypeNote          ItemType = "note"
	ItemTypeFile          ItemType = "file"
	ItemTypeMedicalRecord ItemType = "medical_record"
	ItemTypePreference    ItemType = "preference"
	ItemTypeMeasurement   ItemType = "measurement"
	ItemTypeOther         ItemType = "other"
)

// IsValid reports whether the item type is one of the supported values.
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeNote, ItemTypeFile, ItemTypeMedicalRecord,
		ItemTypePreference, ItemTypeMeasurement, ItemTypeOther:
		return true
	}
	return false
}

// ItemSource identifies where a vault item originated.
type ItemSource string

// Supported vault item sources.
const (
	ItemSourceManual      ItemSource = "manual"
	ItemSourceEpic        ItemSource = "epic"
	ItemSourceFitbit      ItemSource = "fitbit"
	ItemSourceAppleHealth ItemSource = "apple_health"
	ItemSourceImport      ItemSource = "import"
)

// IsValid reports whether the item source is one of the supported values.
func (s ItemSource) IsValid() bool {
	switch s {
	case ItemSourceManual, ItemSourceEpic, ItemSourceFitbit,
		ItemSourceAppleHealth, ItemSourceImport:
		return true
	}
	return false
}

// VaultItem represents a single encrypted record owned by one user.
//
// EncryptedContent and EncryptedMetadata hold base64 envelope blobs as stored
// in the database. Content and Metadata hold the decrypted values in memory
// only and are never persisted or serialized.
type VaultItem struct {
	// ID is the unique identifier of the item.
	ID uuid.UUID
	// UserID is the owning user; every query is scoped by it.
	UserID uuid.UUID
	// Type classifies the item (note, file, medical_record, ...).
	Type ItemType
	// Source identifies where the item came from (manual, epic, fitbit, ...).
	Source ItemSource
	// SourceID is an optional external identifier used for deduplication of
	// imported records.
	SourceID string
	// Title is stored in plaintext to support listing and search.
	Title string
	// EncryptedContent is the base64 envelope blob of the item content.
	EncryptedContent string
	// EncryptedMetadata is the base64 envelope blob of the JSON metadata,
	// empty when the item has no metadata.
	EncryptedMetadata string
	// FilePath points at uploaded file storage for file items.
	FilePath string
	// Content holds the decrypted content in memory only.
	Content string `json:"-"`
	// Metadata holds the decrypted metadata in memory only.
	Metadata map[string]any `json:"-"`
	// Tags are the names of the tags attached to this item.
	Tags []string
	// CreatedAt is the UTC timestamp when the item was created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last modification.
	UpdatedAt time.Time
	// DeletedAt marks when the item was soft-deleted (nil if active).
	DeletedAt *time.Time
}

// IsDeleted reports whether the item has been soft-deleted.
func (v *VaultItem) IsDeleted() bool {
	return v.DeletedAt != nil
}
