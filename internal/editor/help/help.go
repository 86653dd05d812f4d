// Package help looks up help text under <root>/help/*.json, the Go port of
// the original's HelpSystem.
package help

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

// Topic is one looked-up help entry.
type Topic struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// System holds every help topic, keyed by lookup key.
type System struct {
	mu     sync.RWMutex
	topics map[string]string
}

// New builds an empty System.
func New() *System {
	return &System{topics: make(map[string]string)}
}

// LoadDir reads every *.json file directly under dir as a flat
// {key: text} map and merges it into the topic table.
func LoadDir(dir string) (*System, error) {
	s := New()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("help: reading %s: %w", entry.Name(), err)
		}
		var raw map[string]string
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("help: parsing %s: %w", entry.Name(), err)
		}
		s.mu.Lock()
		for key, text := range raw {
			s.topics[key] = text
		}
		s.mu.Unlock()
	}
	return s, nil
}

// Lookup returns the help text for key.
func (s *System) Lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.topics[key]
	return text, ok
}

// List returns every topic key, sorted.
func (s *System) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.topics))
	for k := range s.topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RegisterCommands binds help.lookup/list onto router.
func (s *System) RegisterCommands(router *command.Router) {
	router.RegisterQuery("help.lookup", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Key string `json:"key"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("help.lookup: %w", err)
		}
		text, ok := s.Lookup(req.Key)
		if !ok {
			return nil, fmt.Errorf("help.lookup: no topic %q", req.Key)
		}
		return Topic{Key: req.Key, Text: text}, nil
	})

	router.RegisterQuery("help.list", func(_ context.Context, _ json.RawMessage) (any, error) {
		return s.List(), nil
	})
}
