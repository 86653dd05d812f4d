package session

import (
	"context"

	"github.com/google/uuid"
)

// Store persists sessions. Implementations must handle concurrent access
// safely; Get is keyed by TokenHash since the plaintext token is never
// persisted.
type Store[Data any] interface {
	Get(ctx context.Context, tokenHash string) (*Session[Data], error)
	GetByID(ctx context.Context, id uuid.UUID) (*Session[Data], error)
	Save(ctx context.Context, sess *Session[Data]) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes every expired session and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
