// Package plugin implements discovery, dependency-ordered loading, and the
// enable/disable lifecycle for script-land plugins, the Go port of the
// original's PluginManager.
package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/opencursor/editorhost/core/command"
	"github.com/opencursor/editorhost/core/module"
	"github.com/opencursor/editorhost/core/scripthost"
)

// Manifest is a plugin's metadata, parsed from plugin.json or synthesized
// for a loose single-file plugin.
type Manifest struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	Main         string   `json:"main"`
	Dependencies []string `json:"dependencies"`
	Enabled      bool     `json:"enabled"`
}

// State is one discovered plugin's runtime bookkeeping.
type State struct {
	Manifest Manifest `json:"manifest"`
	DirPath  string   `json:"dirPath"`
	Loaded   bool     `json:"loaded"`
	HasError bool     `json:"hasError"`
	Error    string   `json:"error,omitempty"`
}

// Manager discovers plugins, loads them in dependency order, and tracks
// their enable/disable state.
type Manager struct {
	mu        sync.Mutex
	plugins   []State
	nameIndex map[string]int
	loader    *module.Loader
	host      *scripthost.Host
}

// New builds an empty Manager. loader and host may be nil (Discover still
// works; LoadAll/Activate become no-ops that report an error) — main.go
// always supplies both.
func New(loader *module.Loader, host *scripthost.Host) *Manager {
	return &Manager{
		plugins:   make([]State, 0),
		nameIndex: make(map[string]int),
		loader:    loader,
		host:      host,
	}
}

// Discover scans pluginDir for subdirectories containing a plugin.json
// manifest, and for loose .js/.mjs files (given a synthetic manifest named
// after the file). A missing directory is not an error — it simply yields
// no plugins, matching keymap.LoadDir/help.LoadDir's tolerance.
func (m *Manager) Discover(pluginDir string) error {
	entries, err := os.ReadDir(pluginDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("plugin: reading %s: %w", pluginDir, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range entries {
		path := filepath.Join(pluginDir, entry.Name())
		if entry.IsDir() {
			manifestPath := filepath.Join(path, "plugin.json")
			data, err := os.ReadFile(manifestPath)
			if err != nil {
				continue
			}
			var manifest Manifest
			if err := json.Unmarshal(data, &manifest); err != nil {
				continue
			}
			if manifest.Name == "" {
				manifest.Name = entry.Name()
			}
			if manifest.Version == "" {
				manifest.Version = "0.0.1"
			}
			if manifest.Main == "" {
				manifest.Main = "index.js"
			}
			m.addLocked(State{Manifest: manifest, DirPath: path})
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".js" && ext != ".mjs" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if _, exists := m.nameIndex[name]; exists {
			continue
		}
		m.addLocked(State{
			Manifest: Manifest{Name: name, Version: "0.0.1", Main: entry.Name(), Enabled: true},
			DirPath:  pluginDir,
		})
	}
	return nil
}

func (m *Manager) addLocked(ps State) {
	m.nameIndex[ps.Manifest.Name] = len(m.plugins)
	m.plugins = append(m.plugins, ps)
}

// topologicalOrder returns plugin indices ordered so every dependency
// loads before its dependents (Kahn's algorithm). A circular dependency
// logs nothing here — the remaining plugins are appended in discovery
// order, matching the original's fallback.
func (m *Manager) topologicalOrder() []int {
	n := len(m.plugins)
	adj := make(map[int][]int)
	inDeg := make([]int, n)

	for i, ps := range m.plugins {
		for _, dep := range ps.Manifest.Dependencies {
			if j, ok := m.nameIndex[dep]; ok {
				adj[j] = append(adj[j], i)
				inDeg[i]++
			}
		}
	}

	var queue, order []int
	for i := 0; i < n; i++ {
		if inDeg[i] == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, v := range adj[u] {
			inDeg[v]--
			if inDeg[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	if len(order) != n {
		seen := make(map[int]bool, len(order))
		for _, i := range order {
			seen[i] = true
		}
		for i := 0; i < n; i++ {
			if !seen[i] {
				order = append(order, i)
			}
		}
	}
	return order
}

// LoadAll loads every enabled, not-yet-loaded plugin in dependency order.
// Returns the count of plugins successfully loaded; a per-plugin load
// failure is recorded on its State rather than aborting the batch.
func (m *Manager) LoadAll() (int, error) {
	m.mu.Lock()
	order := m.topologicalOrder()
	m.mu.Unlock()

	loaded := 0
	for _, idx := range order {
		m.mu.Lock()
		ps := m.plugins[idx]
		m.mu.Unlock()
		if !ps.Manifest.Enabled || ps.Loaded {
			continue
		}
		if err := m.loadPlugin(idx); err == nil {
			loaded++
		}
	}
	return loaded, nil
}

// loadPlugin evaluates a single plugin's entry file inside the script
// host's runtime, posting the work onto the host's owning goroutine and
// blocking the caller until it completes.
func (m *Manager) loadPlugin(idx int) error {
	if m.host == nil || m.loader == nil {
		err := fmt.Errorf("plugin: no script host configured")
		m.recordError(idx, err.Error())
		return err
	}

	m.mu.Lock()
	ps := m.plugins[idx]
	m.mu.Unlock()

	entryPath := filepath.Join(ps.DirPath, ps.Manifest.Main)
	if _, err := os.Stat(entryPath); err != nil {
		m.recordError(idx, fmt.Sprintf("entry file not found: %s", entryPath))
		return err
	}

	done := make(chan error, 1)
	m.host.Post(func(rt *goja.Runtime) {
		_, err := m.loader.Load(rt, entryPath)
		done <- err
	})
	if err := <-done; err != nil {
		m.recordError(idx, err.Error())
		return err
	}

	m.mu.Lock()
	m.plugins[idx].Loaded = true
	m.plugins[idx].HasError = false
	m.plugins[idx].Error = ""
	m.mu.Unlock()
	return nil
}

func (m *Manager) recordError(idx int, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins[idx].HasError = true
	m.plugins[idx].Error = msg
}

// Activate enables a plugin and loads it if it isn't loaded yet.
func (m *Manager) Activate(name string) bool {
	m.mu.Lock()
	idx, ok := m.nameIndex[name]
	if !ok {
		m.mu.Unlock()
		return false
	}
	m.plugins[idx].Manifest.Enabled = true
	alreadyLoaded := m.plugins[idx].Loaded
	m.mu.Unlock()

	if alreadyLoaded {
		return true
	}
	return m.loadPlugin(idx) == nil
}

// Deactivate marks a plugin unloaded. Actual script-side teardown, if any,
// is the plugin's own responsibility.
func (m *Manager) Deactivate(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.nameIndex[name]
	if !ok {
		return false
	}
	m.plugins[idx].Loaded = false
	return true
}

// Enable marks a plugin to be loaded on the next LoadAll.
func (m *Manager) Enable(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.nameIndex[name]
	if !ok {
		return false
	}
	m.plugins[idx].Manifest.Enabled = true
	return true
}

// Disable marks a plugin as disabled and unloaded.
func (m *Manager) Disable(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.nameIndex[name]
	if !ok {
		return false
	}
	m.plugins[idx].Manifest.Enabled = false
	m.plugins[idx].Loaded = false
	return true
}

// Find returns one plugin's state by name.
func (m *Manager) Find(name string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.nameIndex[name]
	if !ok {
		return State{}, false
	}
	return m.plugins[idx], true
}

// List returns every discovered plugin, sorted by name.
func (m *Manager) List() []State {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]State, len(m.plugins))
	copy(out, m.plugins)
	sort.Slice(out, func(i, j int) bool { return out[i].Manifest.Name < out[j].Manifest.Name })
	return out
}

// RegisterCommands binds plugin.list/enable/disable/discover/activate/
// deactivate/find onto router, mirroring the original's editor.plugins JS
// binding surface (list, enable, disable) plus the lifecycle operations
// PluginManager exposes beyond it.
func (m *Manager) RegisterCommands(router *command.Router) {
	router.RegisterQuery("plugin.list", func(_ context.Context, _ json.RawMessage) (any, error) {
		return m.List(), nil
	})

	router.RegisterCommand("plugin.enable", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("plugin.enable: %w", err)
		}
		if !m.Enable(req.Name) {
			return fmt.Errorf("plugin.enable: no such plugin %q", req.Name)
		}
		return nil
	})

	router.RegisterCommand("plugin.disable", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("plugin.disable: %w", err)
		}
		if !m.Disable(req.Name) {
			return fmt.Errorf("plugin.disable: no such plugin %q", req.Name)
		}
		return nil
	})

	router.RegisterCommand("plugin.discover", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Dir string `json:"dir"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("plugin.discover: %w", err)
		}
		return m.Discover(req.Dir)
	})

	router.RegisterCommand("plugin.activate", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("plugin.activate: %w", err)
		}
		if !m.Activate(req.Name) {
			return fmt.Errorf("plugin.activate: failed to activate %q", req.Name)
		}
		return nil
	})

	router.RegisterCommand("plugin.deactivate", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("plugin.deactivate: %w", err)
		}
		if !m.Deactivate(req.Name) {
			return fmt.Errorf("plugin.deactivate: no such plugin %q", req.Name)
		}
		return nil
	})

	router.RegisterQuery("plugin.find", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("plugin.find: %w", err)
		}
		ps, ok := m.Find(req.Name)
		if !ok {
			return nil, nil
		}
		return ps, nil
	})
}
