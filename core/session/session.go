package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is one issued bearer token's bookkeeping record. Data carries
// whatever payload the caller wants attached (device name, scopes, ...).
type Session[Data any] struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"-"`
	TokenHash string    `json:"token_hash"`
	DeviceID  uuid.UUID `json:"device_id"`
	Data      Data      `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired reports whether the session's ExpiresAt has passed.
func (s *Session[Data]) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
