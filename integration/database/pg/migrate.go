package pg

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending migration in migrationsFS to the database
// backing pool, using goose's pgx/v5 stdlib adapter.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrationsFS fs.FS, dir string, cfg Config, log *slog.Logger) error {
	if migrationsFS == nil {
		return ErrMigrationsFSNotProvided
	}
	if log == nil {
		log = slog.Default()
	}
	if dir == "" {
		dir = "."
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToApplyMigrations, err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToApplyMigrations, err)
	}

	log.Info("database migrations applied", "table", cfg.MigrationsTable)
	return nil
}
