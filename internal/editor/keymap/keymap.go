// Package keymap implements chord-to-command bindings loaded from
// <root>/keymaps/*.json, the Go port of the original's KeymapManager.
package keymap

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/opencursor/editorhost/core/command"
)

// Binding is one chord bound to a command name with optional args.
type Binding struct {
	Chord   string          `json:"chord"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Manager holds every chord binding, keyed by chord.
type Manager struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

// New builds an empty Manager.
func New() *Manager {
	return &Manager{bindings: make(map[string]Binding)}
}

// LoadDir reads every *.json file directly under dir as a flat
// {chord: {command, args}} map and merges it into the binding table.
func LoadDir(dir string) (*Manager, error) {
	m := New()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("keymap: reading %s: %w", entry.Name(), err)
		}
		var raw map[string]struct {
			Command string          `json:"command"`
			Args    json.RawMessage `json:"args,omitempty"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("keymap: parsing %s: %w", entry.Name(), err)
		}
		for chord, v := range raw {
			m.Bind(chord, v.Command, v.Args)
		}
	}
	return m, nil
}

// Bind adds or overwrites a chord binding.
func (m *Manager) Bind(chord, cmd string, args json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings[chord] = Binding{Chord: chord, Command: cmd, Args: args}
}

// Unbind removes a chord binding. Reports whether it existed.
func (m *Manager) Unbind(chord string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.bindings[chord]
	delete(m.bindings, chord)
	return ok
}

// Resolve returns the binding for chord.
func (m *Manager) Resolve(chord string) (Binding, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bindings[chord]
	return b, ok
}

// List returns every binding, sorted by chord.
func (m *Manager) List() []Binding {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Binding, 0, len(m.bindings))
	for _, b := range m.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Chord < out[j].Chord })
	return out
}

// RegisterCommands binds keymap.bind/unbind/resolve onto router.
func (m *Manager) RegisterCommands(router *command.Router) {
	router.RegisterCommand("keymap.bind", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Chord   string          `json:"chord"`
			Command string          `json:"command"`
			Args    json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("keymap.bind: %w", err)
		}
		m.Bind(req.Chord, req.Command, req.Args)
		return nil
	})

	router.RegisterCommand("keymap.unbind", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Chord string `json:"chord"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("keymap.unbind: %w", err)
		}
		if !m.Unbind(req.Chord) {
			return fmt.Errorf("keymap.unbind: no such chord %q", req.Chord)
		}
		return nil
	})

	router.RegisterQuery("keymap.resolve", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Chord string `json:"chord"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("keymap.resolve: %w", err)
		}
		b, ok := m.Resolve(req.Chord)
		if !ok {
			return nil, fmt.Errorf("keymap.resolve: no binding for %q", req.Chord)
		}
		return b, nil
	})
}
