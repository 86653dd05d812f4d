package server

import "errors"

var (
	// ErrServerAlreadyRunning is returned by Start when called on a Server
	// already serving.
	ErrServerAlreadyRunning = errors.New("server is already running")
)
