package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Manager issues, authenticates, and revokes sessions against a Store.
type Manager[Data any] struct {
	store Store[Data]
	ttl   time.Duration
}

// Option configures a Manager at construction.
type Option[Data any] func(*Manager[Data])

// WithTTL overrides the default session lifetime.
func WithTTL[Data any](ttl time.Duration) Option[Data] {
	return func(m *Manager[Data]) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// New builds a Manager backed by store.
func New[Data any](store Store[Data], opts ...Option[Data]) *Manager[Data] {
	m := &Manager[Data]{store: store, ttl: DefaultConfig().TTLDuration()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Issue creates and persists a new session for deviceID, returning the
// session record and the plaintext token (shown to the caller exactly once;
// only its hash is stored).
func (m *Manager[Data]) Issue(ctx context.Context, deviceID uuid.UUID, data Data) (*Session[Data], string, error) {
	token, err := generateToken()
	if err != nil {
		return nil, "", ErrTokenGeneration
	}

	now := time.Now()
	sess := &Session[Data]{
		ID:        uuid.New(),
		Token:     token,
		TokenHash: HashToken(token),
		DeviceID:  deviceID,
		Data:      data,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrSaveSession, err)
	}
	return sess, token, nil
}

// Authenticate looks up the session for a plaintext bearer token, rejecting
// it if absent or expired.
func (m *Manager[Data]) Authenticate(ctx context.Context, token string) (*Session[Data], error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	sess, err := m.store.Get(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	if sess.IsExpired() {
		_ = m.store.Delete(ctx, sess.ID)
		return nil, ErrExpired
	}
	return sess, nil
}

// Touch extends a session's expiration from now.
func (m *Manager[Data]) Touch(ctx context.Context, sess *Session[Data]) error {
	sess.ExpiresAt = time.Now().Add(m.ttl)
	sess.UpdatedAt = time.Now()
	if err := m.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveSession, err)
	}
	return nil
}

// Revoke deletes a session by id.
func (m *Manager[Data]) Revoke(ctx context.Context, id uuid.UUID) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteSession, err)
	}
	return nil
}

// PurgeExpired removes every expired session from the store.
func (m *Manager[Data]) PurgeExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// HashToken reduces a plaintext bearer token to its storage-safe digest.
func HashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
