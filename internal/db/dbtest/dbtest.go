// Package dbtest opens in-memory sqlite stores and seeds fixtures for tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"wedding-planner/internal/db"
	"wedding-planner/internal/models"
)

// New returns a store over a fresh in-memory schema.
func New(t *testing.T) *db.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serialises writes.
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	store := db.New(bunDB)
	require.NoError(t, store.CreateSchema(context.Background()))
	return store
}

func User(t *testing.T, store *db.DB, role models.Role) *models.User {
	t.Helper()
	id := uuid.NewString()
	u := &models.User{
		ID:       id,
		Name:     string(role) + " " + id[:8],
		Email:    id + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func Wedding(t *testing.T, store *db.DB, owner *models.User) *models.Wedding {
	t.Helper()
	w := &models.Wedding{
		ID:     uuid.NewString(),
		Title:  "Wedding of " + owner.Name,
		Date:   time.Date(2027, 6, 12, 15, 0, 0, 0, time.UTC),
		Venue:  "Lake House",
		Budget: decimal.NewFromInt(20000),
		UserID: owner.ID,
	}
	require.NoError(t, store.CreateWedding(context.Background(), w, nil))
	return w
}

func Category(t *testing.T, store *db.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{ID: uuid.NewString(), Name: name}
	require.NoError(t, store.EnsureCategory(context.Background(), c))
	return c
}

func Vendor(t *testing.T, store *db.DB, owner *models.User, category *models.Category) *models.Vendor {
	t.Helper()
	v := &models.Vendor{
		ID:         uuid.NewString(),
		Name:       "Studio " + uuid.NewString()[:6],
		CategoryID: category.ID,
		Cost:       decimal.NewFromInt(1500),
		Contact:    "+1 555 0100",
		Images:     []string{},
		Rating:     decimal.Zero,
		UserID:     owner.ID,
	}
	require.NoError(t, store.CreateVendor(context.Background(), v))
	return v
}

func Guest(t *testing.T, store *db.DB, w *models.Wedding, email string) *models.Guest {
	t.Helper()
	g := &models.Guest{
		ID:        uuid.NewString(),
		Name:      "Guest " + email,
		Email:     email,
		WeddingID: w.ID,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateGuest(context.Background(), g))
	return g
}

func Booking(t *testing.T, store *db.DB, w *models.Wedding, v *models.Vendor, amount int64) *models.Booking {
	t.Helper()
	b := &models.Booking{
		ID:            uuid.NewString(),
		WeddingID:     w.ID,
		VendorID:      v.ID,
		Amount:        decimal.NewFromInt(amount),
		PaidAmount:    decimal.Zero,
		PaymentStatus: models.PaymentPending,
		BookingDate:   time.Now().UTC(),
	}
	require.NoError(t, store.CreateBooking(context.Background(), b))
	return b
}
