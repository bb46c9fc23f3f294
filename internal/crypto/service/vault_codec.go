package service

import (
	"encoding/base64"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// VaultCodec is the facade consumed by all storage-adjacent code: vault
// items, session data, integration tokens, and any future encrypted column.
// It composes the key resolver with the authenticated cipher and handles the
// text encoding used by database text columns.
//
// The codec is stateless; every call is independent and safe to run
// concurrently for the same or different identities. It performs no I/O and
// writes no logs: plaintext, key material, and blob-to-identity mappings
// must never reach the log stream.
type VaultCodec struct {
	resolver MasterKeyResolver
}

// NewVaultCodec creates a VaultCodec over the given master key resolver.
func NewVaultCodec(resolver MasterKeyResolver) *VaultCodec {
	return &VaultCodec{resolver: resolver}
}

// EncryptForIdentity encrypts plaintext for the identity described by
// (identitySecret, saltHex) and returns the blob base64-encoded for storage.
//
// Identical plaintext encrypts to a different blob on every call because the
// cipher generates a fresh random nonce each time.
func (c *VaultCodec) EncryptForIdentity(identitySecret, saltHex, plaintext string) (string, error) {
	masterKey, err := c.resolver.ResolveMasterKey(identitySecret, saltHex)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(masterKey)

	cipher, err := NewAESGCM(masterKey)
	if err != nil {
		return "", err
	}

	blob, err := cipher.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptForIdentity decodes and decrypts a blob previously produced by
// EncryptForIdentity for the same identity inputs.
//
// Exactly three outcomes are surfaced:
//   - the plaintext, on success
//   - domain.ErrMalformedBlob: not valid base64, or too short to contain a
//     nonce and tag (rejected before any cryptographic work)
//   - domain.ErrIntegrity: authentication failed, from either tampering or a
//     key mismatch; AEAD cannot tell the two apart
//
// Retrying a failed decryption with the same inputs will deterministically
// fail again, so callers must not auto-retry.
func (c *VaultCodec) DecryptForIdentity(identitySecret, saltHex, encoded string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", cryptoDomain.ErrMalformedBlob
	}
	if len(blob) < cryptoDomain.MinBlobSize {
		return "", cryptoDomain.ErrMalformedBlob
	}

	masterKey, err := c.resolver.ResolveMasterKey(identitySecret, saltHex)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(masterKey)

	cipher, err := NewAESGCM(masterKey)
	if err != nil {
		return "", err
	}

	plaintext, err := cipher.Decrypt(blob)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
