package domain

// Sizes and parameters for the per-user encryption scheme.
//
// Every user's master key is derived on demand with PBKDF2-HMAC-SHA256 from
// their identity secret, the process-wide application secret, and a per-user
// random salt. Content is protected with AES-256-GCM. Changing any of these
// values silently rotates every derived key and orphans existing ciphertext,
// so they are fixed for the lifetime of the stored data.
const (
	// MasterKeySize is the size of the derived master key in bytes (256 bits,
	// as required by AES-256).
	MasterKeySize = 32

	// SaltSize is the size of the per-user key derivation salt in bytes.
	// Salts are generated once when a user record is created and never
	// regenerated in place.
	SaltSize = 32

	// SaltHexLength is the length of the salt as persisted: a fixed-width
	// hex string in a text column.
	SaltHexLength = SaltSize * 2

	// NonceSize is the size of the AES-GCM nonce in bytes (96 bits, the
	// recommended size for GCM). A fresh random nonce is generated for
	// every encryption and prefixed to the ciphertext.
	NonceSize = 12

	// TagSize is the size of the GCM authentication tag in bytes, appended
	// to the ciphertext by Seal.
	TagSize = 16

	// MinBlobSize is the minimum size of a decoded encrypted blob:
	// nonce plus authentication tag with an empty ciphertext.
	MinBlobSize = NonceSize + TagSize

	// PBKDF2Iterations is the iteration count for key derivation. The cost
	// is intentional: derivation takes tens of milliseconds on commodity
	// hardware to resist brute-force attacks on the low-entropy identity
	// secret. Do not lower it.
	PBKDF2Iterations = 100_000

	// MinApplicationSecretLength is the minimum accepted length of the
	// application secret in bytes. Anything shorter is treated as a
	// configuration error at startup.
	MinApplicationSecretLength = 32
)
