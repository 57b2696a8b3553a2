package db

import (
	"context"

	"wedding-planner/internal/models"
)

func (d *DB) ListExpenses(ctx context.Context, weddingID, categoryID string) ([]*models.Expense, error) {
	expenses := []*models.Expense{}
	q := d.conn().NewSelect().
		Model(&expenses).
		Relation("Category").
		Where("e.wedding_id = ?", weddingID)
	if categoryID != "" {
		q = q.Where("e.category_id = ?", categoryID)
	}
	if err := q.Order("e.date DESC", "e.id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (d *DB) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	e := new(models.Expense)
	err := d.conn().NewSelect().
		Model(e).
		Relation("Category").
		Relation("Wedding").
		Where("e.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (d *DB) CreateExpense(ctx context.Context, e *models.Expense) error {
	_, err := d.conn().NewInsert().Model(e).Exec(ctx)
	return err
}

func (d *DB) UpdateExpense(ctx context.Context, e *models.Expense, columns ...string) error {
	return d.update(ctx, e, columns...)
}

func (d *DB) DeleteExpense(ctx context.Context, id string) error {
	_, err := d.conn().NewDelete().Model((*models.Expense)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
