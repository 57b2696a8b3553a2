package access

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/models"
)

type resource struct {
	ownerID string
}

func rule(res *resource, loadErr error, policy Policy, role models.Role) (Rule[*resource], *int) {
	loads := 0
	return Rule[*resource]{
		Load: func(ctx context.Context) (*resource, error) {
			loads++
			return res, loadErr
		},
		Owner:       func(r *resource) string { return r.ownerID },
		Policy:      policy,
		RequireRole: role,
		NotFound:    "Guest not found",
		Denied:      "You can only update your own guests",
		Forbidden:   "Only vendors can access this endpoint",
	}, &loads
}

func kindOf(err error) apperr.Kind {
	return apperr.As(err).Kind
}

func TestAuthorize(t *testing.T) {
	owner := &auth.ActingUser{ID: "owner", Role: models.RoleCouple}
	other := &auth.ActingUser{ID: "other", Role: models.RoleCouple}
	admin := &auth.ActingUser{ID: "admin", Role: models.RoleAdmin}
	vendor := &auth.ActingUser{ID: "owner", Role: models.RoleVendor}

	cases := []struct {
		name      string
		user      *auth.ActingUser
		loadErr   error
		policy    Policy
		role      models.Role
		wantKind  apperr.Kind
		wantOK    bool
		wantLoads int
	}{
		{name: "no session", user: nil, wantKind: apperr.KindUnauthenticated},
		{name: "owner", user: owner, wantOK: true, wantLoads: 1},
		{name: "other user", user: other, wantKind: apperr.KindUnauthorized, wantLoads: 1},
		{name: "admin owner-only", user: admin, policy: OwnerOnly, wantKind: apperr.KindUnauthorized, wantLoads: 1},
		{name: "admin owner-or-admin", user: admin, policy: OwnerOrAdmin, wantOK: true, wantLoads: 1},
		{name: "missing", user: owner, loadErr: sql.ErrNoRows, wantKind: apperr.KindNotFound, wantLoads: 1},
		{name: "store failure", user: owner, loadErr: errors.New("conn reset"), wantKind: apperr.KindInternal, wantLoads: 1},
		{name: "role gate before load", user: owner, role: models.RoleVendor, wantKind: apperr.KindForbidden},
		{name: "admin does not pass role gate", user: admin, policy: OwnerOrAdmin, role: models.RoleVendor, wantKind: apperr.KindForbidden},
		{name: "vendor owner", user: vendor, role: models.RoleVendor, wantOK: true, wantLoads: 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := &resource{ownerID: "owner"}
			r, loads := rule(res, c.loadErr, c.policy, c.role)

			got, err := Authorize(context.Background(), c.user, r)
			assert.Equal(t, c.wantLoads, *loads)
			if c.wantOK {
				assert.NoError(t, err)
				assert.Same(t, res, got)
				return
			}
			assert.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, c.wantKind, kindOf(err))
		})
	}
}

func TestAuthorizeMessages(t *testing.T) {
	r, _ := rule(&resource{ownerID: "owner"}, nil, OwnerOnly, "")
	_, err := Authorize(context.Background(), &auth.ActingUser{ID: "x", Role: models.RoleCouple}, r)
	assert.Equal(t, "You can only update your own guests", apperr.As(err).Message)

	r, _ = rule(nil, sql.ErrNoRows, OwnerOnly, "")
	_, err = Authorize(context.Background(), &auth.ActingUser{ID: "x", Role: models.RoleCouple}, r)
	assert.Equal(t, "Guest not found", apperr.As(err).Message)
}
