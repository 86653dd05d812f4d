package session

import "time"

// Config provides environment-based configuration for session issuance.
type Config struct {
	TTL int `env:"SESSION_TTL" envDefault:"86400"` // seconds, 24 hours
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{TTL: 86400}
}

// TTLDuration returns TTL as a time.Duration.
func (c Config) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}
