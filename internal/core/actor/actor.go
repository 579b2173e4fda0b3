// Package actor carries the acting user and their role through context.
package actor

import (
	"context"

	"kiranapos/internal/core/id"
)

// Role is the shop role of the acting user.
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleManager Role = "MANAGER"
	RoleCashier Role = "CASHIER"
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   id.ID
	Name string
	Role Role
}

type actorKey struct{}

// WithActor stores the actor in context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// FromContext returns the actor from context.
// A single-user shop has no login step, so a missing actor defaults to the
// owner rather than failing every operation.
func FromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Actor{Role: RoleOwner}
}

// ParseRole validates a role string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleManager, RoleCashier:
		return Role(s), true
	}
	return "", false
}
