// Package command implements the Command Router: a thread-safe name to
// handler map bridging HTTP, WebSocket, and scripted callers to native
// mutations and queries.
//
// A Mutation takes a JSON argument and reports success or failure; a Query
// takes a JSON argument and returns a JSON value. Names are unique across
// both variants — registering "foo" as a mutation blocks registering "foo"
// as a query and vice versa. Every dispatch, successful or not, returns a
// response.Envelope; handler errors never escape as raw Go errors or
// panics across the router boundary.
package command
