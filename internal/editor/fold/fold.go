// Package fold implements line-range folds per buffer, the Go port of the
// original's FoldManager.
package fold

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/opencursor/editorhost/core/command"
	"github.com/opencursor/editorhost/core/event"
)

// Fold is a collapsible line range within one buffer.
type Fold struct {
	ID        int64  `json:"id"`
	Buffer    string `json:"buffer"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Collapsed bool   `json:"collapsed"`
}

// Manager holds every fold, keyed by buffer.
type Manager struct {
	mu     sync.RWMutex
	folds  map[string]map[int64]*Fold
	nextID atomic.Int64

	bus *event.Bus
}

// New builds an empty Manager.
func New(bus *event.Bus) *Manager {
	return &Manager{folds: make(map[string]map[int64]*Fold), bus: bus}
}

// Create adds a new, initially collapsed fold over [startLine, endLine].
func (m *Manager) Create(buffer string, startLine, endLine int) *Fold {
	id := m.nextID.Add(1)
	f := &Fold{ID: id, Buffer: buffer, StartLine: startLine, EndLine: endLine, Collapsed: true}

	m.mu.Lock()
	if m.folds[buffer] == nil {
		m.folds[buffer] = make(map[int64]*Fold)
	}
	m.folds[buffer][id] = f
	m.mu.Unlock()

	m.emit("fold.created", f)
	return f
}

// Toggle flips a fold's collapsed state. Reports whether the fold existed.
func (m *Manager) Toggle(buffer string, id int64) (*Fold, bool) {
	m.mu.Lock()
	f, ok := m.folds[buffer][id]
	if ok {
		f.Collapsed = !f.Collapsed
	}
	m.mu.Unlock()

	if ok {
		m.emit("fold.toggled", f)
	}
	return f, ok
}

// Remove deletes a fold. Reports whether it existed.
func (m *Manager) Remove(buffer string, id int64) bool {
	m.mu.Lock()
	_, ok := m.folds[buffer][id]
	if ok {
		delete(m.folds[buffer], id)
	}
	m.mu.Unlock()

	if ok {
		m.emit("fold.removed", &Fold{ID: id, Buffer: buffer})
	}
	return ok
}

// List returns every fold in buffer, sorted by StartLine.
func (m *Manager) List(buffer string) []*Fold {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Fold, 0, len(m.folds[buffer]))
	for _, f := range m.folds[buffer] {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartLine < out[j].StartLine })
	return out
}

func (m *Manager) emit(name string, f *Fold) {
	if m.bus == nil {
		return
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return
	}
	m.bus.Emit(name, payload)
}

// RegisterCommands binds fold.create/toggle/remove/list onto router.
func (m *Manager) RegisterCommands(router *command.Router) {
	router.RegisterCommand("fold.create", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Buffer    string `json:"buffer"`
			StartLine int    `json:"startLine"`
			EndLine   int    `json:"endLine"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("fold.create: %w", err)
		}
		m.Create(req.Buffer, req.StartLine, req.EndLine)
		return nil
	})

	router.RegisterCommand("fold.toggle", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Buffer string `json:"buffer"`
			ID     int64  `json:"id"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("fold.toggle: %w", err)
		}
		if _, ok := m.Toggle(req.Buffer, req.ID); !ok {
			return fmt.Errorf("fold.toggle: no such fold %d in %q", req.ID, req.Buffer)
		}
		return nil
	})

	router.RegisterCommand("fold.remove", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Buffer string `json:"buffer"`
			ID     int64  `json:"id"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("fold.remove: %w", err)
		}
		if !m.Remove(req.Buffer, req.ID) {
			return fmt.Errorf("fold.remove: no such fold %d in %q", req.ID, req.Buffer)
		}
		return nil
	})

	router.RegisterQuery("fold.list", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Buffer string `json:"buffer"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("fold.list: %w", err)
		}
		return m.List(req.Buffer), nil
	})
}
