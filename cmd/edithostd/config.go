package main

import "time"

// appConfig is the top-level process configuration: the pieces that don't
// belong to any one subsystem's own Config (internal/server.Config,
// notify.Config, backup.Config are loaded independently). tlsprovision has
// no Config of its own; it is configured from TLSDomain/TLSEmail below.
type appConfig struct {
	AppName       string        `env:"APP_NAME" envDefault:"edithost"`
	WorkspaceDir  string        `env:"WORKSPACE_DIR" envDefault:"."`
	DefaultLang   string        `env:"DEFAULT_LANG" envDefault:"en"`
	Environment   string        `env:"APP_ENV" envDefault:"development"`
	WatchInterval time.Duration `env:"WATCH_INTERVAL" envDefault:"1s"`

	// PairingStore selects the backend for the companion-device pairing
	// session store: "jsonfile" (default, under the per-user app
	// directory), "redis" (integration/database/redis.Config via
	// REDIS_URL), or "postgres" (integration/database/pg.Config via
	// PG_CONN_URL).
	PairingStore string `env:"PAIRING_STORE" envDefault:"jsonfile"`

	// TLSDomain, when set, enables internal/tlsprovision to obtain and
	// terminate TLS directly instead of serving plain HTTP.
	TLSDomain string `env:"TLS_DOMAIN"`
	TLSEmail  string `env:"TLS_EMAIL"`

	// StatusEnabled mounts the internal/status dashboard at /status.
	StatusEnabled bool `env:"STATUS_ENABLED" envDefault:"true"`
}
