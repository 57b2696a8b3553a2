package db

import (
	"context"
	"fmt"
	"strings"

	"wedding-planner/internal/models"
)

func (d *DB) ListGuests(ctx context.Context, weddingID string) ([]*models.Guest, error) {
	guests := []*models.Guest{}
	err := d.conn().NewSelect().
		Model(&guests).
		Relation("RSVP").
		Where("g.wedding_id = ?", weddingID).
		Order("g.created_at DESC", "g.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return guests, nil
}

// GetGuest loads a guest with its RSVP and owning wedding.
func (d *DB) GetGuest(ctx context.Context, id string) (*models.Guest, error) {
	g := new(models.Guest)
	err := d.conn().NewSelect().
		Model(g).
		Relation("RSVP").
		Relation("Wedding").
		Where("g.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GuestEmailExists checks for another guest of the wedding with email,
// ignoring excludeID.
func (d *DB) GuestEmailExists(ctx context.Context, weddingID, email, excludeID string) (bool, error) {
	q := d.conn().NewSelect().
		Model((*models.Guest)(nil)).
		Where("g.wedding_id = ?", weddingID).
		Where("g.email = ?", email)
	if excludeID != "" {
		q = q.Where("g.id <> ?", excludeID)
	}
	return q.Exists(ctx)
}

// GuestEmails returns the lower-cased emails already invited to the wedding.
func (d *DB) GuestEmails(ctx context.Context, weddingID string) (map[string]struct{}, error) {
	var emails []string
	err := d.conn().NewSelect().
		Model((*models.Guest)(nil)).
		Column("email").
		Where("g.wedding_id = ?", weddingID).
		Scan(ctx, &emails)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[strings.ToLower(e)] = struct{}{}
	}
	return set, nil
}

func (d *DB) CreateGuest(ctx context.Context, g *models.Guest) error {
	_, err := d.conn().NewInsert().Model(g).Exec(ctx)
	return err
}

func (d *DB) CreateGuests(ctx context.Context, guests []*models.Guest) error {
	if len(guests) == 0 {
		return nil
	}
	_, err := d.conn().NewInsert().Model(&guests).Exec(ctx)
	return err
}

func (d *DB) UpdateGuest(ctx context.Context, g *models.Guest, columns ...string) error {
	return d.update(ctx, g, columns...)
}

// DeleteGuest removes the guest and its RSVP.
func (d *DB) DeleteGuest(ctx context.Context, id string) error {
	return d.RunInTx(ctx, func(ctx context.Context, tx *DB) error {
		if _, err := tx.conn().NewDelete().Model((*models.RSVP)(nil)).Where("guest_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete rsvp: %w", err)
		}
		_, err := tx.conn().NewDelete().Model((*models.Guest)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
}

func (d *DB) GetRSVPByGuest(ctx context.Context, guestID string) (*models.RSVP, error) {
	r := new(models.RSVP)
	err := d.conn().NewSelect().Model(r).Where("r.guest_id = ?", guestID).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *DB) CreateRSVP(ctx context.Context, r *models.RSVP) error {
	_, err := d.conn().NewInsert().Model(r).Exec(ctx)
	return err
}

func (d *DB) UpdateRSVP(ctx context.Context, r *models.RSVP, columns ...string) error {
	return d.update(ctx, r, columns...)
}

func (d *DB) DeleteRSVP(ctx context.Context, guestID string) error {
	_, err := d.conn().NewDelete().Model((*models.RSVP)(nil)).Where("guest_id = ?", guestID).Exec(ctx)
	return err
}
