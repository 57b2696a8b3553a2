package db

import (
	"context"

	"wedding-planner/internal/models"
)

// ListTasks orders by status ordinal, then priority high to low, then
// deadline. The id breaks remaining ties.
func (d *DB) ListTasks(ctx context.Context, weddingID string, status models.TaskStatus) ([]*models.Task, error) {
	tasks := []*models.Task{}
	q := d.conn().NewSelect().
		Model(&tasks).
		Where("t.wedding_id = ?", weddingID)
	if status != "" {
		q = q.Where("t.status = ?", status)
	}
	err := q.
		OrderExpr("CASE t.status WHEN ? THEN 0 WHEN ? THEN 1 ELSE 2 END ASC", models.TaskPending, models.TaskInProgress).
		Order("t.priority DESC", "t.deadline ASC", "t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (d *DB) GetTask(ctx context.Context, id string) (*models.Task, error) {
	t := new(models.Task)
	err := d.conn().NewSelect().Model(t).Relation("Wedding").Where("t.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (d *DB) CreateTask(ctx context.Context, t *models.Task) error {
	_, err := d.conn().NewInsert().Model(t).Exec(ctx)
	return err
}

func (d *DB) UpdateTask(ctx context.Context, t *models.Task, columns ...string) error {
	return d.update(ctx, t, columns...)
}

func (d *DB) DeleteTask(ctx context.Context, id string) error {
	_, err := d.conn().NewDelete().Model((*models.Task)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
