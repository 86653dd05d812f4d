// Package register implements named yank/paste registers, a Vim-style
// clipboard concept with no original_source counterpart — built in the
// same Manager/RegisterCommands shape as this package's siblings (mark,
// fold) rather than ported from anywhere.
package register

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/opencursor/editorhost/core/command"
)

// Entry is the content held in one register.
type Entry struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Linewise bool   `json:"linewise"`
}

// Manager holds every register by name.
type Manager struct {
	mu        sync.RWMutex
	registers map[string]Entry
}

// New builds an empty Manager.
func New() *Manager {
	return &Manager{registers: make(map[string]Entry)}
}

// Set overwrites a register's content.
func (m *Manager) Set(name, content string, linewise bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registers[name] = Entry{Name: name, Content: content, Linewise: linewise}
}

// Get returns a register's content.
func (m *Manager) Get(name string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.registers[name]
	return e, ok
}

// List returns every register, sorted by name.
func (m *Manager) List() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0, len(m.registers))
	for _, e := range m.registers {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RegisterCommands binds register.set/get/list onto router.
func (m *Manager) RegisterCommands(router *command.Router) {
	router.RegisterCommand("register.set", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Name     string `json:"name"`
			Content  string `json:"content"`
			Linewise bool   `json:"linewise"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("register.set: %w", err)
		}
		m.Set(req.Name, req.Content, req.Linewise)
		return nil
	})

	router.RegisterQuery("register.get", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("register.get: %w", err)
		}
		e, ok := m.Get(req.Name)
		if !ok {
			return nil, fmt.Errorf("register.get: no such register %q", req.Name)
		}
		return e, nil
	})

	router.RegisterQuery("register.list", func(_ context.Context, _ json.RawMessage) (any, error) {
		return m.List(), nil
	})
}
