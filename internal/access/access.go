// Package access implements the single ownership check every per-resource
// operation goes through.
package access

import (
	"context"
	"fmt"

	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/db"
	"wedding-planner/internal/models"
)

type Policy int

const (
	// OwnerOnly admits the owner and nobody else.
	OwnerOnly Policy = iota
	// OwnerOrAdmin also admits ADMIN users.
	OwnerOrAdmin
)

// Rule describes how to load a resource and who controls it.
type Rule[T any] struct {
	Load   func(ctx context.Context) (T, error)
	Owner  func(T) string
	Policy Policy

	// RequireRole is checked before the resource is loaded. ADMIN does not
	// bypass it.
	RequireRole models.Role

	NotFound  string
	Denied    string
	Forbidden string
}

// Authorize enforces, in order: an acting user exists, the role gate, the
// resource exists, the acting user owns it. It returns the loaded resource.
func Authorize[T any](ctx context.Context, user *auth.ActingUser, rule Rule[T]) (T, error) {
	var zero T
	if user == nil || user.ID == "" {
		return zero, apperr.Unauthenticated()
	}

	if rule.RequireRole != "" && user.Role != rule.RequireRole {
		msg := rule.Forbidden
		if msg == "" {
			msg = "Forbidden"
		}
		return zero, apperr.Forbidden(msg)
	}

	resource, err := rule.Load(ctx)
	if err != nil {
		if db.IsNotFound(err) || apperr.IsKind(err, apperr.KindNotFound) {
			msg := rule.NotFound
			if msg == "" {
				msg = "Not found"
			}
			return zero, apperr.NotFound(msg)
		}
		return zero, apperr.Internal(fmt.Errorf("load resource: %w", err))
	}

	if rule.Owner(resource) == user.ID {
		return resource, nil
	}
	if rule.Policy == OwnerOrAdmin && user.IsAdmin() {
		return resource, nil
	}

	msg := rule.Denied
	if msg == "" {
		msg = "Unauthorized"
	}
	return zero, apperr.Unauthorized(msg)
}

// WeddingOwner resolves the controlling user of a wedding, treating a
// missing wedding as nobody.
func WeddingOwner(w *models.Wedding) string {
	if w == nil {
		return ""
	}
	return w.UserID
}

func VendorOwner(v *models.Vendor) string {
	if v == nil {
		return ""
	}
	return v.UserID
}

// RequireUser fails with Unauthenticated when there is no acting user.
func RequireUser(user *auth.ActingUser) error {
	if user == nil || user.ID == "" {
		return apperr.Unauthenticated()
	}
	return nil
}

// RequireRole gates an endpoint to one role before anything is loaded.
func RequireRole(user *auth.ActingUser, role models.Role, msg string) error {
	if err := RequireUser(user); err != nil {
		return err
	}
	if user.Role != role {
		return apperr.Forbidden(msg)
	}
	return nil
}
