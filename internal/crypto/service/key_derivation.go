package service

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// DeriveMasterKey derives a user's 256-bit master key from their identity
// secret, the process-wide application secret, and the user's random salt.
//
// The derivation is PBKDF2-HMAC-SHA256 with 100,000 iterations. The password
// input is the identity secret concatenated with the application secret, in
// that order. The order is load-bearing: swapping it derives a different key
// and orphans every blob encrypted under the old one, so it must never
// change without an explicit re-encryption migration.
//
// The function is deterministic and has no side effects: the same three
// inputs always produce the same key, byte for byte. The iteration count
// makes a single call cost tens of milliseconds of CPU on commodity
// hardware; that cost is the brute-force resistance the low-entropy identity
// secret needs, not a performance bug.
//
// A salt that is not exactly 32 bytes is a caller contract violation, not a
// runtime condition: persisted salts go through the resolver, which rejects
// malformed values before they reach this function. Panics rather than
// silently truncating or padding.
func DeriveMasterKey(
	identitySecret string,
	appSecret cryptoDomain.ApplicationSecret,
	salt []byte,
) []byte {
	if len(salt) != cryptoDomain.SaltSize {
		panic(fmt.Sprintf(
			"key derivation salt must be %d bytes, got %d",
			cryptoDomain.SaltSize,
			len(salt),
		))
	}

	// Identity secret first, application secret second. Fixed order, see above.
	password := make([]byte, 0, len(identitySecret)+len(appSecret))
	password = append(password, identitySecret...)
	password = append(password, appSecret...)
	defer cryptoDomain.Zero(password)

	return pbkdf2.Key(
		password,
		salt,
		cryptoDomain.PBKDF2Iterations,
		cryptoDomain.MasterKeySize,
		sha256.New,
	)
}
