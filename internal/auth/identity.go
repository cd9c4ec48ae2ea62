package auth

import (
	"context"

	"wmx/internal/domain"
)

// Identity is the authenticated caller carried on the request context.
type Identity struct {
	ID   uint64
	Role domain.Role
}

type contextKey string

const identityContextKey contextKey = "wmx/internal/auth/identity"

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}

// Authorize reports whether role meets the minimum. Unknown roles never pass.
func Authorize(role, minimum domain.Role) bool {
	rank := role.Rank()
	return rank > 0 && rank >= minimum.Rank()
}
