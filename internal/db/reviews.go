package db

import (
	"context"

	"github.com/uptrace/bun"

	"wedding-planner/internal/models"
)

func reviewerSummary(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Column("id", "name", "email")
}

func (d *DB) ListReviewsByVendor(ctx context.Context, vendorID string) ([]*models.Review, error) {
	reviews := []*models.Review{}
	err := d.conn().NewSelect().
		Model(&reviews).
		Relation("User", reviewerSummary).
		Relation("Vendor").
		Relation("Vendor.Category").
		Where("rv.vendor_id = ?", vendorID).
		Order("rv.created_at DESC", "rv.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (d *DB) ListReviewsByUser(ctx context.Context, userID string) ([]*models.Review, error) {
	reviews := []*models.Review{}
	err := d.conn().NewSelect().
		Model(&reviews).
		Relation("Vendor").
		Relation("Vendor.Category").
		Where("rv.user_id = ?", userID).
		Order("rv.created_at DESC", "rv.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (d *DB) GetReview(ctx context.Context, id string) (*models.Review, error) {
	r := new(models.Review)
	err := d.conn().NewSelect().
		Model(r).
		Relation("User", reviewerSummary).
		Relation("Vendor").
		Relation("Vendor.Category").
		Where("rv.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *DB) ReviewExists(ctx context.Context, vendorID, userID string) (bool, error) {
	return d.conn().NewSelect().
		Model((*models.Review)(nil)).
		Where("rv.vendor_id = ?", vendorID).
		Where("rv.user_id = ?", userID).
		Exists(ctx)
}

// VendorRatings returns every review rating for the vendor.
func (d *DB) VendorRatings(ctx context.Context, vendorID string) ([]int, error) {
	var ratings []int
	err := d.conn().NewSelect().
		Model((*models.Review)(nil)).
		Column("rating").
		Where("rv.vendor_id = ?", vendorID).
		Scan(ctx, &ratings)
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (d *DB) CreateReview(ctx context.Context, r *models.Review) error {
	_, err := d.conn().NewInsert().Model(r).Exec(ctx)
	return err
}

func (d *DB) UpdateReview(ctx context.Context, r *models.Review, columns ...string) error {
	return d.update(ctx, r, columns...)
}

func (d *DB) DeleteReview(ctx context.Context, id string) error {
	_, err := d.conn().NewDelete().Model((*models.Review)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
