package auth

import (
	"context"

	"wedding-planner/internal/models"
)

// ActingUser is the identity a request runs as. Handlers resolve it once and
// hand it to the services explicitly.
type ActingUser struct {
	ID   string
	Role models.Role
}

func (u *ActingUser) IsAdmin() bool {
	return u != nil && u.Role == models.RoleAdmin
}

func (u *ActingUser) Has(role models.Role) bool {
	return u != nil && u.Role == role
}

type contextKey string

const actingUserKey contextKey = "acting_user"

func WithUser(ctx context.Context, u *ActingUser) context.Context {
	return context.WithValue(ctx, actingUserKey, u)
}

// FromContext returns the user attached by the middleware, or nil.
func FromContext(ctx context.Context) *ActingUser {
	if u, ok := ctx.Value(actingUserKey).(*ActingUser); ok {
		return u
	}
	return nil
}
