package shared

import (
	"context"
	"strings"
)

// Identity is the stable name of a consumer. The host assigns one to every
// component when it is loaded, and it is the unit of accounting for every
// registry operation.
type Identity string

// Unknown is the identity used when no caller identity can be resolved.
const Unknown Identity = "Unknown"

// identityKey is an unexported type to prevent collisions with context keys from other packages.
type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id. A nested call overrides the
// identity set by an outer one, so the innermost component is reported.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext resolves the caller identity stored in ctx, or Unknown.
func IdentityFromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Unknown
	}
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return normalizeIdentity(id)
	}
	return Unknown
}

func normalizeIdentity(id Identity) Identity {
	if strings.TrimSpace(string(id)) == "" {
		return Unknown
	}
	return id
}
