// Package session issues and validates bearer tokens for clients pairing
// with the host (the CLI's own bearer token, and any additional devices
// paired in over the network). Sessions are opaque tokens backed by a
// pluggable Store; the default is an on-disk JSON file, with Postgres and
// Redis backends available for deployments that run more than one host
// process against shared state.
package session
