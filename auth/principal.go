// Package auth issues and verifies session tokens and carries the
// authenticated caller through the request context.
package auth

import (
	"context"

	"dossierportal-backend/models"

	"github.com/google/uuid"
)

// Principal is the authenticated caller of an operation
type Principal struct {
	UserID uuid.UUID
	Role   models.Role
	Email  string
	Name   string
}

// HasRole reports whether the principal holds one of roles
func (p Principal) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// IsInternal reports whether the principal is foundation personnel
func (p Principal) IsInternal() bool {
	return p.Role.IsInternal()
}

type principalKey struct{}

// WithPrincipal stores p in ctx
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
