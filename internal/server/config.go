package server

import "time"

// Config is the host's HTTP/WS transport configuration, loaded from the
// environment the same way every other component configures itself.
type Config struct {
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:":8080"`
	AuthToken       string        `env:"AUTH_TOKEN"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`

	// Authenticator, when set, replaces the static AuthToken comparison
	// with a pluggable check (e.g. a core/session.Manager-backed pairing
	// store that issues one token per paired device). RequireAuth still
	// governs whether auth runs at all.
	Authenticator func(token string) bool `env:"-"`
}

// RequireAuth reports whether an auth check should run at all: either a
// static AuthToken is set, or a pluggable Authenticator was supplied.
func (c Config) RequireAuth() bool {
	return c.AuthToken != "" || c.Authenticator != nil
}

// authenticate validates token against whichever mechanism is configured,
// preferring Authenticator over the static AuthToken when both are set.
func (c Config) authenticate(token string) bool {
	if c.Authenticator != nil {
		return c.Authenticator(token)
	}
	return tokensEqual(token, c.AuthToken)
}
