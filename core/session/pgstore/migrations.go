package pgstore

import "embed"

// MigrationsFS holds the embedded goose migrations for the sessions table,
// for wiring into pg.Migrate.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
