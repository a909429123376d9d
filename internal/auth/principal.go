package auth

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the request-scoped identity resolved from a verified token.
// It lives only for the duration of one request and is never persisted.
// Role is not carried here; it is read from the store when needed because
// it can change between token issuance and use.
type Principal struct {
	UserID uuid.UUID
	Email  string
}

type principalKey struct{}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the authenticated principal attached by the auth
// middleware, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
