// Package domain defines the core identity domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/datavault/internal/errors"
)

// User represents an authenticated user of the vault.
//
// Users authenticate through an external OAuth identity provider; the
// provider's subject identifier (GoogleID) doubles as the identity secret
// fed into key derivation. It is opaque and low-entropy, never used as a key
// directly.
//
// EncryptionSalt is the user's hex-encoded 32-byte key derivation salt,
// generated exactly once when the record is created and never regenerated in
// place: a replaced salt derives a different master key and orphans every
// blob encrypted for the user.
type User struct {
	ID             uuid.UUID
	GoogleID       string
	Email          string
	Name           string
	PictureURL     string
	EncryptionSalt string
	Preferences    map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Domain-specific errors for identity operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same identity already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrGoogleIDRequired indicates the OAuth subject identifier is missing.
	ErrGoogleIDRequired = errors.Wrap(errors.ErrInvalidInput, "google id is required")

	// ErrEmailRequired indicates the email field is required.
	ErrEmailRequired = errors.Wrap(errors.ErrInvalidInput, "email is required")

	// ErrInvalidEmail indicates the email format is invalid.
	ErrInvalidEmail = errors.Wrap(errors.ErrInvalidInput, "invalid email format")
)
