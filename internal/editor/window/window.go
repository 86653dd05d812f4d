// Package window implements a tree of split windows over open documents,
// the Go port of the original's WindowManager.
package window

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/opencursor/editorhost/core/command"
)

// SplitKind distinguishes horizontal from vertical splits.
type SplitKind string

const (
	SplitHorizontal SplitKind = "horizontal"
	SplitVertical   SplitKind = "vertical"
)

// Window is one pane in the split tree.
type Window struct {
	ID         int64     `json:"id"`
	ParentID   int64     `json:"parentId"`
	Split      SplitKind `json:"split,omitempty"`
	DocumentID string    `json:"documentId"`
}

// Manager owns the split tree and tracks which window is focused.
type Manager struct {
	mu      sync.RWMutex
	windows map[int64]*Window
	focused int64
	nextID  atomic.Int64
}

// New builds a Manager with one root window showing documentID.
func New(documentID string) *Manager {
	m := &Manager{windows: make(map[int64]*Window)}
	id := m.nextID.Add(1)
	root := &Window{ID: id, DocumentID: documentID}
	m.windows[id] = root
	m.focused = id
	return m
}

// Split creates a new window as a child of parentID, showing documentID,
// and focuses it.
func (m *Manager) Split(parentID int64, kind SplitKind, documentID string) (*Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.windows[parentID]; !ok {
		return nil, fmt.Errorf("window.split: no such window %d", parentID)
	}
	id := m.nextID.Add(1)
	w := &Window{ID: id, ParentID: parentID, Split: kind, DocumentID: documentID}
	m.windows[id] = w
	m.focused = id
	return w, nil
}

// Close removes a window. The root window (ParentID == 0) cannot be closed
// while other windows exist.
func (m *Manager) Close(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("window.close: no such window %d", id)
	}
	if w.ParentID == 0 && len(m.windows) > 1 {
		return fmt.Errorf("window.close: cannot close the root window while splits exist")
	}
	delete(m.windows, id)
	if m.focused == id {
		for otherID := range m.windows {
			m.focused = otherID
			break
		}
	}
	return nil
}

// Focus moves focus to id. Reports whether id exists.
func (m *Manager) Focus(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[id]; !ok {
		return false
	}
	m.focused = id
	return true
}

// Focused returns the currently focused window's id.
func (m *Manager) Focused() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.focused
}

// List returns every window, in no particular order.
func (m *Manager) List() []*Window {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Window, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, w)
	}
	return out
}

// RegisterCommands binds window.split/close/focus/list onto router.
func (m *Manager) RegisterCommands(router *command.Router) {
	router.RegisterCommand("window.split", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			ParentID   int64  `json:"parentId"`
			Split      string `json:"split"`
			DocumentID string `json:"documentId"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("window.split: %w", err)
		}
		_, err := m.Split(req.ParentID, SplitKind(req.Split), req.DocumentID)
		return err
	})

	router.RegisterCommand("window.close", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("window.close: %w", err)
		}
		return m.Close(req.ID)
	})

	router.RegisterCommand("window.focus", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("window.focus: %w", err)
		}
		if !m.Focus(req.ID) {
			return fmt.Errorf("window.focus: no such window %d", req.ID)
		}
		return nil
	})

	router.RegisterQuery("window.list", func(_ context.Context, _ json.RawMessage) (any, error) {
		return m.List(), nil
	})
}
