// Package service implements the per-user envelope encryption engine:
// master key derivation, authenticated content encryption, and the codec
// facade consumed by all storage-adjacent code.
//
// The whole package is pure, synchronous, CPU-bound computation with no
// shared mutable state, so every type here is safe for concurrent use
// without locking. Key derivation is the only latency-bearing step (tens of
// milliseconds per call); callers in a request loop should budget for it.
package service

// Codec encrypts and decrypts content for an authenticated identity.
//
// It is the only surface the vault, session, and integration layers may use
// to touch ciphertext: key-derivation inputs are validated once, behind this
// interface, and the derived key never leaves it.
type Codec interface {
	// EncryptForIdentity derives the identity's master key and returns the
	// encrypted plaintext as a base64-encoded blob ready for a text column.
	EncryptForIdentity(identitySecret, saltHex, plaintext string) (string, error)

	// DecryptForIdentity reverses EncryptForIdentity. It surfaces exactly
	// three outcomes: the plaintext; domain.ErrIntegrity when the blob was
	// tampered with or the key does not match (AEAD cannot tell the two
	// apart); domain.ErrMalformedBlob when the input is not a structurally
	// valid blob at all.
	DecryptForIdentity(identitySecret, saltHex, encoded string) (string, error)
}

// MasterKeyResolver turns an authenticated identity's stored inputs into its
// master key. Implementations must re-derive on every call and must never
// cache or persist the result.
type MasterKeyResolver interface {
	// ResolveMasterKey decodes the persisted hex salt and derives the
	// 32-byte master key. The caller owns the returned key for the duration
	// of one operation and must zero it before returning.
	ResolveMasterKey(identitySecret, saltHex string) ([]byte, error)
}
