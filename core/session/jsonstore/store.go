package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opencursor/editorhost/core/session"
)

// Store is a file-backed session.Store. The whole table is read into memory
// at construction and rewritten atomically (temp file + rename) on every
// mutation.
type Store[Data any] struct {
	mu      sync.Mutex
	path    string
	records map[uuid.UUID]*session.Session[Data]
}

// New loads (or initializes) the JSON file at path as a session store.
func New[Data any](path string) (*Store[Data], error) {
	s := &Store[Data]{path: path, records: make(map[uuid.UUID]*session.Session[Data])}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store[Data]) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	var records []*session.Session[Data]
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return nil
}

func (s *Store[Data]) persistLocked() error {
	records := make([]*session.Session[Data], 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (s *Store[Data]) Get(_ context.Context, tokenHash string) (*session.Session[Data], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.TokenHash == tokenHash {
			return r, nil
		}
	}
	return nil, session.ErrNotFound
}

func (s *Store[Data]) GetByID(_ context.Context, id uuid.UUID) (*session.Session[Data], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return r, nil
}

func (s *Store[Data]) Save(_ context.Context, sess *session.Session[Data]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[sess.ID] = sess
	return s.persistLocked()
}

func (s *Store[Data]) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return session.ErrNotFound
	}
	delete(s.records, id)
	return s.persistLocked()
}

func (s *Store[Data]) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var count int64
	for id, r := range s.records {
		if !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt) {
			delete(s.records, id)
			count++
		}
	}
	if count > 0 {
		if err := s.persistLocked(); err != nil {
			return 0, err
		}
	}
	return count, nil
}
