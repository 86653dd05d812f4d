package command

import "errors"

var (
	// ErrAlreadyRegistered is returned by callers that check the bool result
	// of RegisterCommand/RegisterQuery instead of handling it inline.
	ErrAlreadyRegistered = errors.New("command: name already registered")

	// ErrNotFound means neither a mutation nor a query is registered under
	// the requested name.
	ErrNotFound = errors.New("command: not found")
)
