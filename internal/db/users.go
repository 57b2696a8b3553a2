package db

import (
	"context"

	"wedding-planner/internal/models"
)

func (d *DB) CreateUser(ctx context.Context, u *models.User) error {
	_, err := d.conn().NewInsert().Model(u).Exec(ctx)
	return err
}

func (d *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	u := new(models.User)
	err := d.conn().NewSelect().Model(u).Where("u.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (d *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := new(models.User)
	err := d.conn().NewSelect().Model(u).Where("u.email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return u, nil
}
