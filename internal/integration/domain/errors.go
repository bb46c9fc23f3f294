package domain

import (
	"github.com/allisson/datavault/internal/errors"
)

// Integration-specific error definitions.
var (
	// ErrIntegrationNotFound indicates the integration does not exist or
	// belongs to another user.
	ErrIntegrationNotFound = errors.Wrap(errors.ErrNotFound, "integration not found")

	// ErrIntegrationAlreadyExists indicates the user already has an
	// integration for this provider.
	ErrIntegrationAlreadyExists = errors.Wrap(errors.ErrConflict, "integration already exists for this provider")

	// ErrTokenNotFound indicates no stored token of the requested type.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "integration token not found")

	// ErrInvalidProvider indicates an unsupported provider.
	ErrInvalidProvider = errors.Wrap(errors.ErrInvalidInput, "invalid integration provider")

	// ErrInvalidTokenType indicates an unsupported OAuth token type.
	ErrInvalidTokenType = errors.Wrap(errors.ErrInvalidInput, "invalid token type")
)
