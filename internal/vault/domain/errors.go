package domain

import (
	"github.com/allisson/datavault/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrItemNotFound indicates the vault item does not exist or belongs to
	// another user. The two cases are deliberately indistinguishable.
	ErrItemNotFound = errors.Wrap(errors.ErrNotFound, "vault item not found")

	// ErrTagNotFound indicates the tag does not exist for this user.
	ErrTagNotFound = errors.Wrap(errors.ErrNotFound, "tag not found")

	// ErrTagAlreadyExists indicates a tag with the same name already exists
	// for this user.
	ErrTagAlreadyExists = errors.Wrap(errors.ErrConflict, "tag already exists")

	// ErrContentTooLarge indicates the item content exceeds the configured
	// size limit.
	ErrContentTooLarge = errors.Wrap(errors.ErrInvalidInput, "content exceeds the maximum allowed size")

	// ErrInvalidItemType indicates an unsupported vault item type.
	ErrInvalidItemType = errors.Wrap(errors.ErrInvalidInput, "invalid vault item type")

	// ErrInvalidItemSource indicates an unsupported vault item source.
	ErrInvalidItemSource = errors.Wrap(errors.ErrInvalidInput, "invalid vault item source")
)
