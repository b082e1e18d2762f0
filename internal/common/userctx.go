package common

import "context"

// UserContext holds the identity resolved from a bearer token. Handlers read
// the owner identity from here; credential verification happens once, in the
// auth middleware, before the request reaches any handler.
type UserContext struct {
	UserID string
	Email  string
	Admin  bool
}

type userContextKey struct{}

// WithUserContext returns a context carrying the resolved user identity.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}

// UserContextFrom extracts the user identity from a request context.
// Returns nil when the request was not authenticated.
func UserContextFrom(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey{}).(*UserContext)
	return uc
}
