// Package event implements the Event Bus: a prioritized, asynchronous
// pub/sub dispatcher with one-shot subscriptions, synchronous and
// asynchronous emission, wildcard listeners, and a dedicated dispatch
// goroutine.
//
// Listeners for one event name are ordered by priority descending, ties
// keeping insertion order. Wildcard ("*") listeners always fire strictly
// after all exact-name listeners for a given Emit/EmitSync call, regardless
// of priority.
//
// The bus moves through three states: running, stopping (draining), and
// stopped. Shutdown is idempotent; once stopped, Emit is a no-op and new
// subscriptions are rejected silently.
package event
