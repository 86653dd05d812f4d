// Package session persists and restores the editor's window/document
// layout as session.json (per the persisted-state layout), reusing
// core/session's pattern of a pluggable Store behind a small manager.
package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/opencursor/editorhost/core/command"
)

// CurrentVersion is the session.json schema version this package writes.
const CurrentVersion = 1

// DocumentState is one open document's restorable state.
type DocumentState struct {
	FilePath  string `json:"filePath"`
	CursorLine int   `json:"cursorLine"`
	CursorCol  int   `json:"cursorCol"`
	ScrollTop  int   `json:"scrollTop"`
	IsActive   bool  `json:"isActive"`
}

// State is the full session.json document.
type State struct {
	Version      int             `json:"version"`
	ActiveIndex  int             `json:"activeIndex"`
	WorkingDir   string          `json:"workingDir"`
	WindowWidth  int             `json:"windowWidth"`
	WindowHeight int             `json:"windowHeight"`
	Documents    []DocumentState `json:"documents"`
}

// Store persists and loads a single session.State document.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
}

// Manager wraps a Store with the commands the router exposes.
type Manager struct {
	store Store
}

// New builds a Manager backed by store.
func New(store Store) *Manager {
	return &Manager{store: store}
}

// Load returns the persisted session, or a fresh empty State if none
// exists yet.
func (m *Manager) Load(ctx context.Context) (*State, error) {
	state, err := m.store.Load(ctx)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Version: CurrentVersion}, nil
		}
		return nil, err
	}
	return state, nil
}

// Save persists state, stamping it with CurrentVersion.
func (m *Manager) Save(ctx context.Context, state *State) error {
	state.Version = CurrentVersion
	return m.store.Save(ctx, state)
}

// RegisterCommands binds session.save/load onto router.
func (m *Manager) RegisterCommands(router *command.Router) {
	router.RegisterQuery("session.load", func(ctx context.Context, _ json.RawMessage) (any, error) {
		return m.Load(ctx)
	})

	router.RegisterCommand("session.save", func(ctx context.Context, args json.RawMessage) error {
		var state State
		if err := json.Unmarshal(args, &state); err != nil {
			return err
		}
		return m.Save(ctx, &state)
	})
}

// FileStore is the default Store: a single session.json file under a user
// root directory, written atomically (temp file + rename).
type FileStore struct {
	path string
}

// NewFileStore builds a FileStore writing to <userRoot>/session.json.
func NewFileStore(userRoot string) *FileStore {
	return &FileStore{path: filepath.Join(userRoot, "session.json")}
}

func (f *FileStore) Load(_ context.Context) (*State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (f *FileStore) Save(_ context.Context, state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
