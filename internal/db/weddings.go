package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"wedding-planner/internal/models"
)

func eventsByDate(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("ev.date ASC", "ev.id ASC")
}

// ListWeddingsByUser returns the user's weddings with their events and child
// counts, earliest first.
func (d *DB) ListWeddingsByUser(ctx context.Context, userID string) ([]*models.Wedding, error) {
	weddings := []*models.Wedding{}
	err := d.conn().NewSelect().
		Model(&weddings).
		Relation("Events", eventsByDate).
		Where("w.user_id = ?", userID).
		Order("w.date ASC", "w.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(weddings))
	for i, w := range weddings {
		ids[i] = w.ID
	}
	guests, err := d.countBy(ctx, (*models.Guest)(nil), "wedding_id", ids)
	if err != nil {
		return nil, err
	}
	bookings, err := d.countBy(ctx, (*models.Booking)(nil), "wedding_id", ids)
	if err != nil {
		return nil, err
	}
	tasks, err := d.countBy(ctx, (*models.Task)(nil), "wedding_id", ids)
	if err != nil {
		return nil, err
	}
	expenses, err := d.countBy(ctx, (*models.Expense)(nil), "wedding_id", ids)
	if err != nil {
		return nil, err
	}
	for _, w := range weddings {
		w.Counts = &models.WeddingCounts{
			Guests:   guests[w.ID],
			Bookings: bookings[w.ID],
			Tasks:    tasks[w.ID],
			Expenses: expenses[w.ID],
		}
	}
	return weddings, nil
}

// FindWeddingByUser returns the caller's wedding, the oldest one when the
// user owns several.
func (d *DB) FindWeddingByUser(ctx context.Context, userID string) (*models.Wedding, error) {
	w := new(models.Wedding)
	err := d.conn().NewSelect().
		Model(w).
		Where("w.user_id = ?", userID).
		Order("w.created_at ASC", "w.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (d *DB) GetWedding(ctx context.Context, id string) (*models.Wedding, error) {
	w := new(models.Wedding)
	err := d.conn().NewSelect().Model(w).Where("w.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// GetWeddingDetail loads a wedding with every child collection.
func (d *DB) GetWeddingDetail(ctx context.Context, id string) (*models.Wedding, error) {
	w := new(models.Wedding)
	err := d.conn().NewSelect().
		Model(w).
		Relation("Events", eventsByDate).
		Relation("Guests", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("RSVP").Order("g.created_at DESC", "g.id ASC")
		}).
		Relation("Bookings", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Vendor").Relation("Vendor.Category").Order("wv.booking_date DESC", "wv.id ASC")
		}).
		Relation("Tasks", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("t.deadline ASC", "t.id ASC")
		}).
		Relation("Expenses", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Category").Order("e.date DESC", "e.id ASC")
		}).
		Where("w.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// CreateWedding inserts the wedding and its initial events together.
func (d *DB) CreateWedding(ctx context.Context, w *models.Wedding, events []*models.WeddingEvent) error {
	return d.RunInTx(ctx, func(ctx context.Context, tx *DB) error {
		if _, err := tx.conn().NewInsert().Model(w).Exec(ctx); err != nil {
			return fmt.Errorf("insert wedding: %w", err)
		}
		if len(events) == 0 {
			return nil
		}
		for _, ev := range events {
			ev.WeddingID = w.ID
		}
		if _, err := tx.conn().NewInsert().Model(&events).Exec(ctx); err != nil {
			return fmt.Errorf("insert wedding events: %w", err)
		}
		w.Events = events
		return nil
	})
}

func (d *DB) UpdateWedding(ctx context.Context, w *models.Wedding, columns ...string) error {
	return d.update(ctx, w, columns...)
}

// DeleteWedding removes the wedding and everything it owns.
func (d *DB) DeleteWedding(ctx context.Context, id string) error {
	return d.RunInTx(ctx, func(ctx context.Context, tx *DB) error {
		guestIDs := tx.conn().NewSelect().Model((*models.Guest)(nil)).Column("id").Where("wedding_id = ?", id)
		if _, err := tx.conn().NewDelete().Model((*models.RSVP)(nil)).Where("guest_id IN (?)", guestIDs).Exec(ctx); err != nil {
			return fmt.Errorf("delete rsvps: %w", err)
		}
		for _, model := range []interface{}{
			(*models.Guest)(nil),
			(*models.WeddingEvent)(nil),
			(*models.Booking)(nil),
			(*models.Task)(nil),
			(*models.Expense)(nil),
		} {
			if _, err := tx.conn().NewDelete().Model(model).Where("wedding_id = ?", id).Exec(ctx); err != nil {
				return fmt.Errorf("delete %T: %w", model, err)
			}
		}
		_, err := tx.conn().NewDelete().Model((*models.Wedding)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
}

func (d *DB) CreateEvent(ctx context.Context, ev *models.WeddingEvent) error {
	_, err := d.conn().NewInsert().Model(ev).Exec(ctx)
	return err
}

func (d *DB) GetEvent(ctx context.Context, id string) (*models.WeddingEvent, error) {
	ev := new(models.WeddingEvent)
	err := d.conn().NewSelect().Model(ev).Where("ev.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// ListEvents returns a wedding's events in date order.
func (d *DB) ListEvents(ctx context.Context, weddingID string) ([]*models.WeddingEvent, error) {
	events := make([]*models.WeddingEvent, 0)
	err := d.conn().NewSelect().
		Model(&events).
		Where("ev.wedding_id = ?", weddingID).
		Order("ev.date ASC", "ev.id ASC").
		Scan(ctx)
	return events, err
}

func (d *DB) DeleteEvent(ctx context.Context, id string) error {
	_, err := d.conn().NewDelete().Model((*models.WeddingEvent)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
