// Package pgstore implements session.Store on PostgreSQL via pgx/v5, for
// deployments that run more than one host process against shared state.
package pgstore
