package db

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"wedding-planner/internal/models"
)

// ListCategories returns every category by name with its vendor count.
func (d *DB) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories := []*models.Category{}
	if err := d.conn().NewSelect().Model(&categories).Order("c.name ASC").Scan(ctx); err != nil {
		return nil, err
	}
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	counts, err := d.countBy(ctx, (*models.Vendor)(nil), "category_id", ids)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		c.Counts = &models.CategoryCounts{Vendors: counts[c.ID]}
	}
	return categories, nil
}

func (d *DB) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	c := new(models.Category)
	err := d.conn().NewSelect().Model(c).Where("c.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (d *DB) CategoryExists(ctx context.Context, id string) (bool, error) {
	return d.conn().NewSelect().Model((*models.Category)(nil)).Where("c.id = ?", id).Exists(ctx)
}

// EnsureCategory inserts the category unless one with the same name exists.
func (d *DB) EnsureCategory(ctx context.Context, c *models.Category) error {
	_, err := d.conn().NewInsert().Model(c).On("CONFLICT (name) DO NOTHING").Exec(ctx)
	return err
}

// ListVendors returns public listings, best rated first.
func (d *DB) ListVendors(ctx context.Context, categoryID string) ([]*models.Vendor, error) {
	vendors := []*models.Vendor{}
	q := d.conn().NewSelect().Model(&vendors).Relation("Category")
	if categoryID != "" {
		q = q.Where("v.category_id = ?", categoryID)
	}
	if err := q.Order("v.rating DESC", "v.name ASC", "v.id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return vendors, nil
}

func (d *DB) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	v := new(models.Vendor)
	err := d.conn().NewSelect().Model(v).Relation("Category").Where("v.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetVendorDetail loads a listing with its category and bookings.
func (d *DB) GetVendorDetail(ctx context.Context, id string) (*models.Vendor, error) {
	v := new(models.Vendor)
	err := d.conn().NewSelect().
		Model(v).
		Relation("Category").
		Relation("Bookings", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Wedding").Order("wv.booking_date DESC", "wv.id ASC")
		}).
		Where("v.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ListVendorsByOwner returns the listings owned by userID, newest first,
// with booking counts.
func (d *DB) ListVendorsByOwner(ctx context.Context, userID string) ([]*models.Vendor, error) {
	vendors := []*models.Vendor{}
	err := d.conn().NewSelect().
		Model(&vendors).
		Relation("Category").
		Where("v.user_id = ?", userID).
		Order("v.created_at DESC", "v.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(vendors))
	for i, v := range vendors {
		ids[i] = v.ID
	}
	counts, err := d.countBy(ctx, (*models.Booking)(nil), "vendor_id", ids)
	if err != nil {
		return nil, err
	}
	for _, v := range vendors {
		v.Counts = &models.VendorCounts{Bookings: counts[v.ID]}
	}
	return vendors, nil
}

func (d *DB) VendorExists(ctx context.Context, id string) (bool, error) {
	return d.conn().NewSelect().Model((*models.Vendor)(nil)).Where("v.id = ?", id).Exists(ctx)
}

func (d *DB) CountVendorBookings(ctx context.Context, vendorID string) (int, error) {
	return d.conn().NewSelect().Model((*models.Booking)(nil)).Where("wv.vendor_id = ?", vendorID).Count(ctx)
}

func (d *DB) CreateVendor(ctx context.Context, v *models.Vendor) error {
	_, err := d.conn().NewInsert().Model(v).Exec(ctx)
	return err
}

func (d *DB) UpdateVendor(ctx context.Context, v *models.Vendor, columns ...string) error {
	return d.update(ctx, v, columns...)
}

// UpdateVendorRating writes only the rating column.
func (d *DB) UpdateVendorRating(ctx context.Context, vendorID string, rating decimal.Decimal) error {
	res, err := d.conn().NewUpdate().
		Model((*models.Vendor)(nil)).
		Set("rating = ?", rating).
		Where("id = ?", vendorID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("vendor %s: no rows updated", vendorID)
	}
	return nil
}

// DeleteVendor removes the listing and its reviews.
func (d *DB) DeleteVendor(ctx context.Context, id string) error {
	return d.RunInTx(ctx, func(ctx context.Context, tx *DB) error {
		if _, err := tx.conn().NewDelete().Model((*models.Review)(nil)).Where("vendor_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		_, err := tx.conn().NewDelete().Model((*models.Vendor)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
}
