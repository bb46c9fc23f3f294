// Package http provides the authentication middleware and session handlers.
package http

import (
	"context"

	identityDomain "github.com/allisson/datavault/internal/identity/domain"
)

// userKey is a context key type for storing the authenticated user.
type userKey struct{}

// WithUser stores the authenticated user in the context. Called by the
// authentication middleware after token verification.
func WithUser(ctx context.Context, user *identityDomain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser retrieves the authenticated user from the context. The user
// carries the identity secret and encryption salt the vault handlers need
// to resolve the master key.
func GetUser(ctx context.Context) (*identityDomain.User, bool) {
	user, ok := ctx.Value(userKey{}).(*identityDomain.User)
	return user, ok
}
