package watcher

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opencursor/editorhost/core/logger"
)

// EventKind classifies a single detected change.
type EventKind string

const (
	Created  EventKind = "Created"
	Modified EventKind = "Modified"
	Deleted  EventKind = "Deleted"
)

// Event is one filesystem change detected by a diff pass.
type Event struct {
	Kind EventKind
	Path string
}

// Callback receives a detected Event. Panics are recovered per call and
// logged; one misbehaving callback does not stop delivery to others.
type Callback func(Event)

type snapshotEntry struct {
	modTime time.Time
	size    int64
	isDir   bool
}

// Watcher polls a directory tree on its own goroutine, diffing successive
// snapshots and delivering Created/Modified/Deleted events.
type Watcher struct {
	mu         sync.Mutex
	dir        string
	interval   time.Duration
	extensions map[string]bool
	ignoreDirs map[string]bool
	callbacks  []Callback

	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	logger *slog.Logger
}

// DefaultInterval is the poll interval used when SetInterval is never
// called.
const DefaultInterval = time.Second

// New builds a Watcher with default interval and no filters.
func New(log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Watcher{
		interval: DefaultInterval,
		logger:   log,
	}
}

// SetInterval overrides the poll interval. Must be called before Watch.
func (w *Watcher) SetInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if d > 0 {
		w.interval = d
	}
}

// SetExtensions restricts diffed regular files to those matching one of
// exts (e.g. ".go"). An empty or nil list matches every extension.
func (w *Watcher) SetExtensions(exts []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(exts) == 0 {
		w.extensions = nil
		return
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[e] = true
	}
	w.extensions = set
}

// SetIgnoreDirs excludes directories whose base name matches any of names,
// at any depth, from both snapshotting and diffing.
func (w *Watcher) SetIgnoreDirs(names []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(names) == 0 {
		w.ignoreDirs = nil
		return
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	w.ignoreDirs = set
}

// OnEvent registers cb to receive every detected event.
func (w *Watcher) OnEvent(cb Callback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Watch starts polling dir on a new background goroutine. Calling Watch
// again while already running is a no-op.
func (w *Watcher) Watch(dir string) {
	if w.running.Load() {
		return
	}
	w.mu.Lock()
	w.dir = dir
	w.mu.Unlock()

	w.running.Store(true)
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.loop()
}

// Stop signals the background goroutine to exit and waits for it.
func (w *Watcher) Stop() {
	if !w.running.Load() {
		return
	}
	close(w.stopCh)
	<-w.doneCh
	w.running.Store(false)
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	w.mu.Lock()
	dir, interval := w.dir, w.interval
	w.mu.Unlock()

	previous := w.snapshot(dir)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-timer.C:
			w.mu.Lock()
			interval = w.interval
			w.mu.Unlock()

			current := w.snapshot(dir)
			w.diff(previous, current)
			previous = current
			timer.Reset(interval)
		}
	}
}

func (w *Watcher) snapshot(dir string) map[string]snapshotEntry {
	entries := make(map[string]snapshotEntry)

	w.mu.Lock()
	ignoreDirs := w.ignoreDirs
	extensions := w.extensions
	w.mu.Unlock()

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && isIgnoredDir(d.Name(), ignoreDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchesExtension(path, extensions) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil // raced out from under us; skip silently
		}
		entries[path] = snapshotEntry{modTime: info.ModTime(), size: info.Size(), isDir: false}
		return nil
	})

	return entries
}

func isIgnoredDir(name string, ignore map[string]bool) bool {
	return ignore != nil && ignore[name]
}

func matchesExtension(path string, extensions map[string]bool) bool {
	if len(extensions) == 0 {
		return true
	}
	return extensions[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) diff(previous, current map[string]snapshotEntry) {
	for path, entry := range current {
		prior, existed := previous[path]
		if !existed {
			w.emit(Event{Kind: Created, Path: path})
			continue
		}
		if entry.modTime != prior.modTime || entry.size != prior.size {
			w.emit(Event{Kind: Modified, Path: path})
		}
	}
	for path := range previous {
		if _, stillExists := current[path]; !stillExists {
			w.emit(Event{Kind: Deleted, Path: path})
		}
	}
}

func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	callbacks := append([]Callback(nil), w.callbacks...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		w.safeCall(cb, ev)
	}
}

func (w *Watcher) safeCall(cb Callback, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("watcher callback panicked",
				logger.Component("watcher"), slog.Any("panic", r), logger.Path(ev.Path))
		}
	}()
	cb(ev)
}
