package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencursor/editorhost/core/session"
)

// Store is a session.Store backed by a sessions table in PostgreSQL.
// Data must be JSON-marshalable; it is stored in a jsonb column.
type Store[Data any] struct {
	pool *pgxpool.Pool
}

// New builds a Store against an already-connected pool. Run the embedded
// MigrationsFS through pg.Migrate before first use.
func New[Data any](pool *pgxpool.Pool) *Store[Data] {
	return &Store[Data]{pool: pool}
}

func (s *Store[Data]) Get(ctx context.Context, tokenHash string) (*session.Session[Data], error) {
	const q = `SELECT id, token_hash, device_id, data, expires_at, created_at, updated_at
		FROM sessions WHERE token_hash = $1`
	return s.scanRow(s.pool.QueryRow(ctx, q, tokenHash))
}

func (s *Store[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	const q = `SELECT id, token_hash, device_id, data, expires_at, created_at, updated_at
		FROM sessions WHERE id = $1`
	return s.scanRow(s.pool.QueryRow(ctx, q, id))
}

func (s *Store[Data]) scanRow(row pgx.Row) (*session.Session[Data], error) {
	var (
		sess     session.Session[Data]
		rawData  []byte
	)
	if err := row.Scan(&sess.ID, &sess.TokenHash, &sess.DeviceID, &rawData,
		&sess.ExpiresAt, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	if len(rawData) > 0 {
		if err := json.Unmarshal(rawData, &sess.Data); err != nil {
			return nil, err
		}
	}
	return &sess, nil
}

func (s *Store[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	rawData, err := json.Marshal(sess.Data)
	if err != nil {
		return err
	}
	const q = `INSERT INTO sessions (id, token_hash, device_id, data, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			token_hash = EXCLUDED.token_hash,
			data = EXCLUDED.data,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at`
	_, err = s.pool.Exec(ctx, q, sess.ID, sess.TokenHash, sess.DeviceID, rawData,
		sess.ExpiresAt, sess.CreatedAt, sess.UpdatedAt)
	return err
}

func (s *Store[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (s *Store[Data]) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
