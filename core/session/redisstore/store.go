package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/opencursor/editorhost/core/session"
)

const keyPrefix = "editorhost:session:"
const tokenIndexPrefix = "editorhost:session:by-token:"

// Store is a session.Store backed by Redis. Records expire natively via key
// TTL, so DeleteExpired is a no-op kept only to satisfy session.Store.
type Store[Data any] struct {
	client *redis.Client
}

// New builds a Store against an already-connected client.
func New[Data any](client *redis.Client) *Store[Data] {
	return &Store[Data]{client: client}
}

func recordKey(id uuid.UUID) string { return keyPrefix + id.String() }
func tokenKey(hash string) string   { return tokenIndexPrefix + hash }

func (s *Store[Data]) Get(ctx context.Context, tokenHash string) (*session.Session[Data], error) {
	idStr, err := s.client.Get(ctx, tokenKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *Store[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	raw, err := s.client.Get(ctx, recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	var sess session.Session[Data]
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKey(sess.ID), raw, ttl)
	pipe.Set(ctx, tokenKey(sess.TokenHash), sess.ID.String(), ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	sess, err := s.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil
		}
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, recordKey(id))
	pipe.Del(ctx, tokenKey(sess.TokenHash))
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteExpired is a no-op: Redis enforces expiry via key TTL.
func (s *Store[Data]) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}
