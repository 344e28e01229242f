// Package auth resolves bearer tokens to principals and answers capability
// checks for the page controller.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// Principal is the authenticated identity of a caller.
type Principal struct {
	// ID is the configured user, or a hash of the token when none is set.
	ID           string
	User         string
	Capabilities []string
}

// NewPrincipal creates a Principal from a token and optional user.
func NewPrincipal(token, user string, capabilities []string) Principal {
	id := user
	if id == "" {
		hash := sha256.Sum256([]byte(token))
		id = "t_" + hex.EncodeToString(hash[:])[:16]
	}
	return Principal{ID: id, User: user, Capabilities: slices.Clone(capabilities)}
}

// Can reports whether the principal holds capability.
func (p Principal) Can(capability string) bool {
	return capability != "" && slices.Contains(p.Capabilities, capability)
}

type ctxKey struct{}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal attached to ctx.
func FromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// Authorizer answers capability checks for the principal carried by ctx.
// Anonymous callers hold no capabilities.
type Authorizer struct{}

// Can implements page.Authorizer.
func (Authorizer) Can(ctx context.Context, capability string) bool {
	p, ok := FromContext(ctx)
	return ok && p.Can(capability)
}
