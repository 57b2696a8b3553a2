// Package migrations applies the embedded Postgres schema migrations.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/uptrace/bun"

	"wedding-planner/internal/logger"
)

//go:embed sql/*.sql
var files embed.FS

// SchemaVersion is the last migration that only creates structure. Later
// versions insert reference data.
const SchemaVersion uint = 1

type MigrateOptions struct {
	// AutoMigrate runs pending migrations on startup.
	AutoMigrate bool
	// SeedData also applies the reference data migrations.
	SeedData bool
}

func DefaultOptions() MigrateOptions {
	return MigrateOptions{AutoMigrate: true, SeedData: true}
}

// Runner drives golang-migrate over the embedded SQL files.
type Runner struct {
	bunDB    *bun.DB
	options  MigrateOptions
	log      *logger.Logger
	migrator *migrate.Migrate
}

func NewRunner(bunDB *bun.DB, opts MigrateOptions, log *logger.Logger) *Runner {
	return &Runner{bunDB: bunDB, options: opts, log: log}
}

func (r *Runner) Initialize() error {
	driver, err := postgres.WithInstance(r.bunDB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres migration driver: %w", err)
	}
	source, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	r.migrator = m
	return nil
}

func (r *Runner) ensure() error {
	if r.migrator != nil {
		return nil
	}
	return r.Initialize()
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// RunMigrations applies pending migrations, stopping after SchemaVersion
// unless reference data is wanted.
func (r *Runner) RunMigrations() error {
	if err := r.ensure(); err != nil {
		return err
	}
	if err := r.repairDirty(); err != nil {
		return err
	}

	var err error
	if r.options.SeedData {
		r.log.Info("MIGRATION", "Running all migrations including reference data")
		err = r.migrator.Up()
	} else {
		r.log.Info("MIGRATION", "Running schema migrations only")
		err = r.upTo(SchemaVersion)
	}
	if err = ignoreNoChange(err); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return r.logVersion()
}

// repairDirty rolls the recorded version back by one after a failed run so
// the broken migration is retried. Migrations are transactional in Postgres.
func (r *Runner) repairDirty() error {
	version, dirty, err := r.Version()
	if err != nil || !dirty {
		return err
	}
	prev := int(version) - 1
	if prev < 1 {
		prev = -1 // no version recorded
	}
	r.log.Warn("MIGRATION", fmt.Sprintf("Dirty migration at version %d, forcing %d", version, prev))
	if err := r.migrator.Force(prev); err != nil {
		return fmt.Errorf("force version %d: %w", prev, err)
	}
	return nil
}

// upTo never moves backwards.
func (r *Runner) upTo(target uint) error {
	current, _, err := r.Version()
	if err != nil {
		return err
	}
	if current >= target {
		return migrate.ErrNoChange
	}
	return r.migrator.Migrate(target)
}

func (r *Runner) logVersion() error {
	version, dirty, err := r.Version()
	if err != nil {
		return err
	}
	r.log.Info("MIGRATION", fmt.Sprintf("Schema version %d (dirty: %t)", version, dirty))
	return nil
}

func (r *Runner) step(name string, fn func(m *migrate.Migrate) error) error {
	if err := r.ensure(); err != nil {
		return err
	}
	if err := ignoreNoChange(fn(r.migrator)); err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}
	return r.logVersion()
}

func (r *Runner) MigrateUp() error {
	return r.step("up", (*migrate.Migrate).Up)
}

// MigrateDown reverts every migration.
func (r *Runner) MigrateDown() error {
	return r.step("down", (*migrate.Migrate).Down)
}

func (r *Runner) MigrateTo(version uint) error {
	return r.step(fmt.Sprintf("to %d", version), func(m *migrate.Migrate) error {
		return m.Migrate(version)
	})
}

// Version reports the applied version, 0 when nothing ran yet.
func (r *Runner) Version() (uint, bool, error) {
	if err := r.ensure(); err != nil {
		return 0, false, err
	}
	version, dirty, err := r.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Close frees the migrator. The postgres driver also closes the database
// handle passed to NewRunner, so give the runner its own connection.
func (r *Runner) Close() error {
	if r.migrator == nil {
		return nil
	}
	srcErr, dbErr := r.migrator.Close()
	return errors.Join(srcErr, dbErr)
}
