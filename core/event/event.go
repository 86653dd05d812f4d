package event

import "encoding/json"

// WildcardName is the single wildcard event name: it matches every emitted
// event, but only after all of that event's exact-name listeners have run.
const WildcardName = "*"

// Event is the (name, payload) tuple delivered through the bus. Payload is
// a JSON document; freeform names are expected, "*" is reserved as the
// wildcard.
type Event struct {
	Name    string
	Payload json.RawMessage
}

// Handler receives a delivered Event. Panics are recovered per listener and
// logged; one failing listener never affects the others in the same
// dispatch.
type Handler func(Event)

type registration struct {
	handler  Handler
	priority int
	once     bool
}
