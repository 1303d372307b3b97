package auth

import "context"

// Principal is the authenticated identity attached to every request by the
// auth middleware. Services trust it for authorization decisions; they never
// verify credentials themselves.
type Principal struct {
	UserID uint
	Role   string
}

type principalKey struct{}

// WithPrincipal stores the principal in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal from ctx.
// ok is false on unauthenticated requests (public routes).
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
