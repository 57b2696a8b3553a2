// Package db is the bun-backed store for every wedding planner table.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"wedding-planner/internal/models"
)

type DB struct {
	Bun *bun.DB
	tx  bun.IDB
}

func New(bunDB *bun.DB) *DB {
	return &DB{Bun: bunDB}
}

func (d *DB) conn() bun.IDB {
	if d.tx != nil {
		return d.tx
	}
	return d.Bun
}

// RunInTx runs fn with a store bound to one transaction. Nested calls reuse
// the outer transaction.
func (d *DB) RunInTx(ctx context.Context, fn func(ctx context.Context, tx *DB) error) error {
	if d.tx != nil {
		return fn(ctx, d)
	}
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &DB{Bun: d.Bun, tx: tx})
	})
}

// CreateSchema creates every table from the models. Used for sqlite; the
// Postgres schema is owned by the migrations.
func (d *DB) CreateSchema(ctx context.Context) error {
	for _, model := range models.All() {
		if _, err := d.Bun.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type countRow struct {
	OwnerKey string `bun:"owner_key"`
	Cnt      int    `bun:"cnt"`
}

// countBy counts rows of model grouped by column for the given keys.
func (d *DB) countBy(ctx context.Context, model interface{}, column string, keys []string) (map[string]int, error) {
	counts := make(map[string]int, len(keys))
	if len(keys) == 0 {
		return counts, nil
	}
	var rows []countRow
	err := d.conn().NewSelect().
		Model(model).
		ColumnExpr("? AS owner_key", bun.Ident(column)).
		ColumnExpr("COUNT(*) AS cnt").
		Where("? IN (?)", bun.Ident(column), bun.In(keys)).
		GroupExpr("?", bun.Ident(column)).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", column, err)
	}
	for _, r := range rows {
		counts[r.OwnerKey] = r.Cnt
	}
	return counts, nil
}

func (d *DB) update(ctx context.Context, model interface{}, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	_, err := d.conn().NewUpdate().Model(model).Column(columns...).WherePK().Exec(ctx)
	return err
}
