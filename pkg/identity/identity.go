package identity

import "context"

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the caller of a request: the opaque user id supplied
// by the gateway plus the request attributes recorded in audit entries.
type Identity struct {
	UserID    string
	RemoteIP  string
	UserAgent string
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(Key).(Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
