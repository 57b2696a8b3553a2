// Package seed loads reference categories and demo accounts.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"wedding-planner/internal/db"
	"wedding-planner/internal/logger"
	"wedding-planner/internal/models"
)

// Categories mirrors the reference data migration so SQLite setups get the
// same ids.
var Categories = []models.Category{
	{ID: "cat-venue", Name: "Venue"},
	{ID: "cat-catering", Name: "Catering"},
	{ID: "cat-photography", Name: "Photography"},
	{ID: "cat-decoration", Name: "Decoration"},
	{ID: "cat-music", Name: "Music & Entertainment"},
	{ID: "cat-attire", Name: "Attire"},
	{ID: "cat-makeup", Name: "Makeup & Beauty"},
	{ID: "cat-transport", Name: "Transportation"},
	{ID: "cat-invitations", Name: "Invitations"},
	{ID: "cat-other", Name: "Other"},
}

type Account struct {
	Name  string
	Email string
	Role  models.Role
}

var DemoAccounts = []Account{
	{Name: "Demo Couple", Email: "couple@example.com", Role: models.RoleCouple},
	{Name: "Demo Vendor", Email: "vendor@example.com", Role: models.RoleVendor},
	{Name: "Demo Admin", Email: "admin@example.com", Role: models.RoleAdmin},
}

// Run inserts whatever is missing and returns the demo users, existing or
// new. Running it twice changes nothing.
func Run(ctx context.Context, store *db.DB, password string, log *logger.Logger) ([]*models.User, error) {
	for i := range Categories {
		c := Categories[i]
		if err := store.EnsureCategory(ctx, &c); err != nil {
			return nil, fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}
	log.Info("SEED", fmt.Sprintf("%d categories ensured", len(Categories)))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	users := make([]*models.User, 0, len(DemoAccounts))
	for _, a := range DemoAccounts {
		u, err := store.GetUserByEmail(ctx, a.Email)
		if err == nil {
			users = append(users, u)
			continue
		}
		if !db.IsNotFound(err) {
			return nil, fmt.Errorf("look up %s: %w", a.Email, err)
		}

		u = &models.User{
			ID:       uuid.NewString(),
			Name:     a.Name,
			Email:    a.Email,
			Password: string(hash),
			Role:     a.Role,
		}
		if err := store.CreateUser(ctx, u); err != nil {
			return nil, fmt.Errorf("create %s: %w", a.Email, err)
		}
		log.Info("SEED", fmt.Sprintf("Created %s user %s", a.Role, a.Email))
		users = append(users, u)
	}
	return users, nil
}

// CheckPassword reports whether password matches the user's stored hash.
func CheckPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
