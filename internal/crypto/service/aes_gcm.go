package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// AESGCMCipher provides authenticated encryption over byte content using
// AES-256-GCM, producing and consuming self-describing blobs of the form
// nonce(12) || ciphertext || tag(16).
//
// Security properties:
//   - 256-bit key, 12-byte random nonce per encryption, 16-byte tag
//   - Authenticated encryption: tampering, truncation, and key mismatch are
//     all detected during decryption and rejected as a single error
//   - No associated data is used; the blob stands alone
//
// Thread safety: the cipher holds no mutable state after construction and is
// safe for concurrent use from multiple goroutines. Each encryption generates
// its nonce independently.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates an AES-256-GCM cipher over a 32-byte key, typically one
// freshly derived by DeriveMasterKey. The cipher does not retain ownership
// of the key slice; callers remain responsible for zeroing it.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.MasterKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext and returns the raw blob nonce || ciphertext || tag.
//
// A fresh random 12-byte nonce is generated per call with crypto/rand and
// never derived from content, so encrypting identical plaintext twice under
// the same key yields different blobs. That non-determinism is intentional
// and must be preserved; do not memoize ciphertext.
//
// Content is assumed to fit in memory; enforcing an upstream size limit is
// the responsibility of the HTTP layer, not this component.
func (a *AESGCMCipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, cryptoDomain.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends ciphertext+tag to the nonce, producing the final blob.
	return a.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt splits a raw blob into nonce and ciphertext+tag, then decrypts and
// verifies it.
//
// Returns domain.ErrMalformedBlob for blobs too short to contain a nonce and
// tag, before any cryptographic work. Returns domain.ErrIntegrity when tag
// verification fails, whether from tampering, truncation, or a wrong key;
// no partial or unauthenticated plaintext is ever returned.
func (a *AESGCMCipher) Decrypt(blob []byte) ([]byte, error) {
	if len(blob) < cryptoDomain.MinBlobSize {
		return nil, cryptoDomain.ErrMalformedBlob
	}

	nonce := blob[:cryptoDomain.NonceSize]
	ciphertext := blob[cryptoDomain.NonceSize:]

	plaintext, err := a.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, cryptoDomain.ErrIntegrity
	}

	return plaintext, nil
}
