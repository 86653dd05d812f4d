// Package mark implements named and numbered marks per buffer: a thin
// position bookmark table, the Go port of the original's MarkManager.
package mark

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/opencursor/editorhost/core/command"
	"github.com/opencursor/editorhost/core/event"
)

// Position is a line/column location within a buffer.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Mark is a named position within one buffer.
type Mark struct {
	Name   string   `json:"name"`
	Buffer string   `json:"buffer"`
	Pos    Position `json:"pos"`
}

// Manager holds every mark, keyed by buffer then mark name.
type Manager struct {
	mu    sync.RWMutex
	marks map[string]map[string]Mark

	bus *event.Bus
}

// New builds an empty Manager. bus may be nil, in which case mark events
// are not emitted.
func New(bus *event.Bus) *Manager {
	return &Manager{marks: make(map[string]map[string]Mark), bus: bus}
}

// Set creates or overwrites a named mark in buffer.
func (m *Manager) Set(buffer, name string, pos Position) Mark {
	m.mu.Lock()
	if m.marks[buffer] == nil {
		m.marks[buffer] = make(map[string]Mark)
	}
	mk := Mark{Name: name, Buffer: buffer, Pos: pos}
	m.marks[buffer][name] = mk
	m.mu.Unlock()

	m.emit("mark.added", mk)
	return mk
}

// Get returns the mark named name in buffer.
func (m *Manager) Get(buffer, name string) (Mark, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mk, ok := m.marks[buffer][name]
	return mk, ok
}

// Delete removes a mark. Reports whether it existed.
func (m *Manager) Delete(buffer, name string) bool {
	m.mu.Lock()
	_, existed := m.marks[buffer][name]
	if existed {
		delete(m.marks[buffer], name)
	}
	m.mu.Unlock()

	if existed {
		m.emit("mark.deleted", Mark{Name: name, Buffer: buffer})
	}
	return existed
}

// List returns every mark in buffer, sorted by name.
func (m *Manager) List(buffer string) []Mark {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Mark, 0, len(m.marks[buffer]))
	for _, mk := range m.marks[buffer] {
		out = append(out, mk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *Manager) emit(name string, mk Mark) {
	if m.bus == nil {
		return
	}
	payload, err := json.Marshal(mk)
	if err != nil {
		return
	}
	m.bus.Emit(name, payload)
}

// RegisterCommands binds mark.set/get/delete/list onto router.
func (m *Manager) RegisterCommands(router *command.Router) {
	router.RegisterCommand("mark.set", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Buffer string   `json:"buffer"`
			Name   string   `json:"name"`
			Pos    Position `json:"pos"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("mark.set: %w", err)
		}
		m.Set(req.Buffer, req.Name, req.Pos)
		return nil
	})

	router.RegisterQuery("mark.get", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Buffer string `json:"buffer"`
			Name   string `json:"name"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("mark.get: %w", err)
		}
		mk, ok := m.Get(req.Buffer, req.Name)
		if !ok {
			return nil, fmt.Errorf("mark.get: no such mark %q in %q", req.Name, req.Buffer)
		}
		return mk, nil
	})

	router.RegisterCommand("mark.delete", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Buffer string `json:"buffer"`
			Name   string `json:"name"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("mark.delete: %w", err)
		}
		if !m.Delete(req.Buffer, req.Name) {
			return fmt.Errorf("mark.delete: no such mark %q in %q", req.Name, req.Buffer)
		}
		return nil
	})

	router.RegisterQuery("mark.list", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Buffer string `json:"buffer"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("mark.list: %w", err)
		}
		return m.List(req.Buffer), nil
	})
}
