package domain

import (
	"github.com/allisson/datavault/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrIntegrity indicates that authenticated decryption failed.
	//
	// This covers both a tampered or truncated blob and a key mismatch
	// (wrong identity secret, wrong salt, or rotated application secret).
	// The two causes are deliberately not distinguished: exposing which one
	// occurred would give an attacker a decryption oracle.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrIntegrity = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrMalformedBlob indicates an encrypted blob failed structural
	// validation before any cryptographic verification was attempted:
	// invalid base64, or shorter than nonce plus authentication tag.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrMalformedBlob = errors.Wrap(errors.ErrInvalidInput, "malformed encrypted blob")

	// ErrMalformedSalt indicates a stored salt does not decode to exactly
	// 32 bytes. This means the user record is corrupted; callers must treat
	// the identity as unusable rather than fabricating a substitute salt,
	// which would silently orphan all of the user's ciphertext.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrMalformedSalt = errors.Wrap(errors.ErrInvalidInput, "malformed encryption salt")

	// ErrApplicationSecretNotSet indicates the process-wide application
	// secret is missing from configuration. Fatal at startup: no encryption
	// operation may be served without it.
	ErrApplicationSecretNotSet = errors.New("application secret is not set")

	// ErrApplicationSecretTooShort indicates the configured application
	// secret is implausibly short for a 256-bit random value. Fatal at
	// startup for the same reason as ErrApplicationSecretNotSet.
	ErrApplicationSecretTooShort = errors.New("application secret is too short")

	// ErrInvalidKeySize indicates a key of the wrong length was handed to
	// the cipher. All master keys are exactly 32 bytes (256 bits).
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")
)
