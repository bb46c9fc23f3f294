package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewEncryptionSalt generates a fresh random 32-byte key derivation salt and
// returns it hex-encoded for storage in a fixed-width text column.
//
// The salt is generated exactly once, at the moment a user record is first
// created, and persisted before any vault item can be encrypted for that
// user. It is not sensitive by itself, but it must never be regenerated in
// place: a new salt derives a new master key and orphans every blob encrypted
// under the old one.
func NewEncryptionSalt() (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate encryption salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// DecodeSaltHex decodes a persisted hex salt into its 32 raw bytes.
// Returns ErrMalformedSalt if the value does not decode to exactly SaltSize
// bytes, which indicates a corrupted user record.
func DecodeSaltHex(saltHex string) ([]byte, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, ErrMalformedSalt
	}
	if len(salt) != SaltSize {
		return nil, ErrMalformedSalt
	}
	return salt, nil
}
