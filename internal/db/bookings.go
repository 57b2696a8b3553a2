package db

import (
	"context"

	"github.com/uptrace/bun"

	"wedding-planner/internal/models"
)

func (d *DB) ListBookingsByWedding(ctx context.Context, weddingID string) ([]*models.Booking, error) {
	bookings := []*models.Booking{}
	err := d.conn().NewSelect().
		Model(&bookings).
		Relation("Vendor").
		Relation("Vendor.Category").
		Where("wv.wedding_id = ?", weddingID).
		Order("wv.booking_date DESC", "wv.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetBooking loads a booking with both aggregate roots: the wedding for the
// couple side and the vendor for the vendor side.
func (d *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b := new(models.Booking)
	err := d.conn().NewSelect().
		Model(b).
		Relation("Vendor").
		Relation("Vendor.Category").
		Relation("Wedding").
		Where("wv.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func couplesContact(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Column("id", "name", "email", "phone")
}

// ListBookingsForVendorOwner returns bookings across every listing owned by
// userID, with the wedding and the couple's contact details.
func (d *DB) ListBookingsForVendorOwner(ctx context.Context, userID string) ([]*models.Booking, error) {
	bookings := []*models.Booking{}
	err := d.conn().NewSelect().
		Model(&bookings).
		Relation("Vendor").
		Relation("Vendor.Category").
		Relation("Wedding").
		Relation("Wedding.User", couplesContact).
		Where("vendor.user_id = ?", userID).
		Order("wv.booking_date DESC", "wv.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetBookingForVendorOwner loads one booking with the same shape as
// ListBookingsForVendorOwner.
func (d *DB) GetBookingForVendorOwner(ctx context.Context, id string) (*models.Booking, error) {
	b := new(models.Booking)
	err := d.conn().NewSelect().
		Model(b).
		Relation("Vendor").
		Relation("Vendor.Category").
		Relation("Wedding").
		Relation("Wedding.User", couplesContact).
		Where("wv.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (d *DB) BookingExists(ctx context.Context, weddingID, vendorID string) (bool, error) {
	return d.conn().NewSelect().
		Model((*models.Booking)(nil)).
		Where("wv.wedding_id = ?", weddingID).
		Where("wv.vendor_id = ?", vendorID).
		Exists(ctx)
}

func (d *DB) CreateBooking(ctx context.Context, b *models.Booking) error {
	_, err := d.conn().NewInsert().Model(b).Exec(ctx)
	return err
}

func (d *DB) UpdateBooking(ctx context.Context, b *models.Booking, columns ...string) error {
	return d.update(ctx, b, columns...)
}

func (d *DB) DeleteBooking(ctx context.Context, id string) error {
	_, err := d.conn().NewDelete().Model((*models.Booking)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
