package service

import (
	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// KeyResolver derives a master key for an authenticated identity from its
// stored inputs. It is the only legitimate place in the system that calls
// DeriveMasterKey with the live application secret; every other code path
// goes through it so derivation inputs are validated once, consistently.
//
// The resolver never caches: every call re-derives. The derived key exists
// only in the caller's stack for the duration of one operation.
type KeyResolver struct {
	appSecret cryptoDomain.ApplicationSecret
}

// NewKeyResolver creates a KeyResolver over a validated application secret.
// An empty or implausibly short secret is a configuration error and is
// rejected here so the process fails fast at startup instead of deriving
// weak keys at request time.
func NewKeyResolver(appSecret cryptoDomain.ApplicationSecret) (*KeyResolver, error) {
	if err := appSecret.Validate(); err != nil {
		return nil, err
	}
	return &KeyResolver{appSecret: appSecret}, nil
}

// ResolveMasterKey decodes the persisted hex salt and derives the identity's
// 32-byte master key.
//
// Returns domain.ErrMalformedSalt if the stored salt does not decode to
// exactly 32 bytes; the identity must then be treated as unusable.
//
// The caller owns the returned key for one logical operation and must zero
// it with domain.Zero before returning. The resolver itself keeps no copy.
func (r *KeyResolver) ResolveMasterKey(identitySecret, saltHex string) ([]byte, error) {
	salt, err := cryptoDomain.DecodeSaltHex(saltHex)
	if err != nil {
		return nil, err
	}

	return DeriveMasterKey(identitySecret, r.appSecret, salt), nil
}
