// Package jsonstore implements session.Store on top of a single JSON file,
// the default backend for a single host process with no external database.
package jsonstore
