package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/datavault/internal/auth/domain"
	apperrors "github.com/allisson/datavault/internal/errors"
)

// accessTokenClaims is the JWT payload of an access token.
type accessTokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// tokenService implements TokenService with HS256 JWTs and SHA-256 hashed
// refresh tokens.
type tokenService struct {
	secretKey  []byte
	expiration time.Duration
}

// NewTokenService creates a TokenService signing access tokens with the
// given secret. expiration bounds the access token lifetime.
func NewTokenService(secretKey string, expiration time.Duration) TokenService {
	return &tokenService{
		secretKey:  []byte(secretKey),
		expiration: expiration,
	}
}

// IssueAccessToken signs a short-lived JWT carrying the user identity.
func (t *tokenService) IssueAccessToken(userID uuid.UUID, email string) (string, error) {
	now := time.Now().UTC()
	claims := accessTokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secretKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign access token")
	}
	return signed, nil
}

// VerifyAccessToken validates the signature, expiry, and subject of an
// access token. Every failure maps to ErrInvalidAccessToken so callers
// cannot distinguish tampering from expiry.
func (t *tokenService) VerifyAccessToken(token string) (*AccessClaims, error) {
	var claims accessTokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, authDomain.ErrInvalidAccessToken
		}
		return t.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, authDomain.ErrInvalidAccessToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, authDomain.ErrInvalidAccessToken
	}

	return &AccessClaims{
		UserID: userID,
		Email:  claims.Email,
	}, nil
}

// GenerateRefreshToken creates a new cryptographically secure 32-byte random
// token. Returns the base64 URL-encoded token and its SHA-256 hash.
func (t *tokenService) GenerateRefreshToken() (string, string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken := base64.URLEncoding.EncodeToString(randomBytes)
	return plainToken, t.HashToken(plainToken), nil
}

// HashToken hashes a plain token with SHA-256, returning a hex string.
func (t *tokenService) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

// GenerateStateToken returns a random URL-safe token for the OAuth state
// parameter.
func GenerateStateToken() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate state token")
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}
