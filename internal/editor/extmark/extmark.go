// Package extmark implements buffer-anchored, namespaced metadata ranges
// that shift as lines are inserted or removed above them — the Go port of
// the original's Extmark subsystem.
package extmark

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/opencursor/editorhost/core/command"
)

// Range is an anchored span of lines, optionally carrying opaque metadata.
type Range struct {
	ID        int64          `json:"id"`
	Namespace string         `json:"namespace"`
	Buffer    string         `json:"buffer"`
	StartLine int            `json:"startLine"`
	EndLine   int            `json:"endLine"`
	Data      map[string]any `json:"data,omitempty"`
}

// Manager holds every extmark, keyed by buffer then namespace.
type Manager struct {
	mu     sync.RWMutex
	marks  map[string]map[string]map[int64]*Range
	nextID atomic.Int64
}

// New builds an empty Manager.
func New() *Manager {
	return &Manager{marks: make(map[string]map[string]map[int64]*Range)}
}

// Set creates a new extmark in buffer's namespace.
func (m *Manager) Set(buffer, namespace string, startLine, endLine int, data map[string]any) *Range {
	id := m.nextID.Add(1)
	r := &Range{ID: id, Namespace: namespace, Buffer: buffer, StartLine: startLine, EndLine: endLine, Data: data}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.marks[buffer] == nil {
		m.marks[buffer] = make(map[string]map[int64]*Range)
	}
	if m.marks[buffer][namespace] == nil {
		m.marks[buffer][namespace] = make(map[int64]*Range)
	}
	m.marks[buffer][namespace][id] = r
	return r
}

// Get returns every extmark in buffer's namespace (all, if namespace is "").
func (m *Manager) Get(buffer, namespace string) []*Range {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Range
	if namespace != "" {
		for _, r := range m.marks[buffer][namespace] {
			out = append(out, r)
		}
		return out
	}
	for _, ns := range m.marks[buffer] {
		for _, r := range ns {
			out = append(out, r)
		}
	}
	return out
}

// Clear removes every extmark in buffer's namespace (all, if namespace is "").
func (m *Manager) Clear(buffer, namespace string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if namespace != "" {
		n := len(m.marks[buffer][namespace])
		delete(m.marks[buffer], namespace)
		return n
	}
	n := 0
	for _, ns := range m.marks[buffer] {
		n += len(ns)
	}
	delete(m.marks, buffer)
	return n
}

// ShiftLines adjusts every extmark in buffer whose range starts at or after
// afterLine by delta lines — called when an edit inserts or removes lines.
func (m *Manager) ShiftLines(buffer string, afterLine, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ns := range m.marks[buffer] {
		for _, r := range ns {
			if r.StartLine >= afterLine {
				r.StartLine += delta
				r.EndLine += delta
			}
		}
	}
}

// RegisterCommands binds extmark.set/get/clear onto router.
func (m *Manager) RegisterCommands(router *command.Router) {
	router.RegisterCommand("extmark.set", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Buffer    string         `json:"buffer"`
			Namespace string         `json:"namespace"`
			StartLine int            `json:"startLine"`
			EndLine   int            `json:"endLine"`
			Data      map[string]any `json:"data"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("extmark.set: %w", err)
		}
		m.Set(req.Buffer, req.Namespace, req.StartLine, req.EndLine, req.Data)
		return nil
	})

	router.RegisterQuery("extmark.get", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Buffer    string `json:"buffer"`
			Namespace string `json:"namespace"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("extmark.get: %w", err)
		}
		return m.Get(req.Buffer, req.Namespace), nil
	})

	router.RegisterCommand("extmark.clear", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Buffer    string `json:"buffer"`
			Namespace string `json:"namespace"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("extmark.clear: %w", err)
		}
		m.Clear(req.Buffer, req.Namespace)
		return nil
	})
}
