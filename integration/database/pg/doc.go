// Package pg provides PostgreSQL connection pooling, migrations, and health
// checking on top of pgx/v5 and goose, for host deployments that back
// pairing sessions (core/session/pgstore) with a shared database instead
// of local files.
package pg
