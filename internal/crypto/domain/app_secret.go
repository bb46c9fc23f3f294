package domain

import (
	"os"
)

// ApplicationSecret is the single process-wide secret combined with each
// user's identity secret during key derivation. The identity secret alone has
// at most a few bytes of attacker-unpredictable entropy; the application
// secret raises the effective entropy of the derivation password.
//
// Lifecycle and handling rules:
//   - Loaded once at process start from configuration and never mutated,
//     so concurrent reads need no synchronization.
//   - Never logged, never transmitted, never persisted.
//   - Rotating it is equivalent to rotating every user's master key and
//     requires an explicit re-encryption migration, which this service does
//     not implement.
type ApplicationSecret string

// Validate checks that the secret is present and plausibly high-entropy.
// It returns ErrApplicationSecretNotSet or ErrApplicationSecretTooShort,
// both of which are fatal at startup: the process must refuse to serve any
// request that needs encryption.
func (s ApplicationSecret) Validate() error {
	if s == "" {
		return ErrApplicationSecretNotSet
	}
	if len(s) < MinApplicationSecretLength {
		return ErrApplicationSecretTooShort
	}
	return nil
}

// LoadApplicationSecretFromEnv loads and validates the application secret
// from the APP_SECRET_KEY environment variable.
//
// The secret should be a 256-bit random value; generate one with the
// create-app-secret command. In production, prefer injecting it through a
// secret manager rather than a plain environment file.
func LoadApplicationSecretFromEnv() (ApplicationSecret, error) {
	secret := ApplicationSecret(os.Getenv("APP_SECRET_KEY"))
	if err := secret.Validate(); err != nil {
		return "", err
	}
	return secret, nil
}
