package domain

import "context"

type identityKey struct{}

// Identity carries the authenticated caller through request context.
// It is built once per request from a verified token and never mutated.
type Identity struct {
	ID    string // token subject; referenced by cluster_memberships.identity_id
	Name  string
	Email string
}

// Valid reports whether the identity can be bound to a database session.
func (id Identity) Valid() bool {
	return id.ID != ""
}

// WithIdentity stores an Identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the Identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
