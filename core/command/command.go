package command

import (
	"context"
	"encoding/json"
)

// Mutation is a native handler that mutates editor state. Success is
// implied by a nil return; the argument is the raw JSON body of the call.
type Mutation func(ctx context.Context, args json.RawMessage) error

// Query is a native handler that reads editor state without mutating it and
// returns a JSON-marshalable value.
type Query func(ctx context.Context, args json.RawMessage) (any, error)
