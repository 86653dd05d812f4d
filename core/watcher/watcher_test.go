package watcher_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/core/watcher"
)

type recorder struct {
	mu     sync.Mutex
	events []watcher.Event
}

func (r *recorder) record(ev watcher.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []watcher.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]watcher.Event(nil), r.events...)
}

// Scenario D — File watcher diff cycle.
func TestWatcher_ScenarioD_BaselineThenCreateModifyDelete(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(existing, []byte("a"), 0o644))

	w := watcher.New(nil)
	w.SetInterval(30 * time.Millisecond)
	rec := &recorder{}
	w.OnEvent(rec.record)

	w.Watch(dir)
	defer w.Stop()

	time.Sleep(60 * time.Millisecond)
	require.Empty(t, rec.snapshot(), "baseline snapshot must not emit events")

	created := filepath.Join(dir, "created.txt")
	require.NoError(t, os.WriteFile(created, []byte("new"), 0o644))

	require.Eventually(t, func() bool {
		for _, ev := range rec.snapshot() {
			if ev.Path == created && ev.Kind == watcher.Created {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)

	time.Sleep(40 * time.Millisecond)
	require.NoError(t, os.WriteFile(existing, []byte("modified content"), 0o644))

	require.Eventually(t, func() bool {
		for _, ev := range rec.snapshot() {
			if ev.Path == existing && ev.Kind == watcher.Modified {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)

	time.Sleep(40 * time.Millisecond)
	require.NoError(t, os.Remove(created))

	require.Eventually(t, func() bool {
		for _, ev := range rec.snapshot() {
			if ev.Path == created && ev.Kind == watcher.Deleted {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_IgnoreDirsExcludesMatchingDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))

	w := watcher.New(nil)
	w.SetInterval(20 * time.Millisecond)
	w.SetIgnoreDirs([]string{"node_modules"})
	rec := &recorder{}
	w.OnEvent(rec.record)

	w.Watch(dir)
	defer w.Stop()
	time.Sleep(40 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "pkg.json"), []byte("{}"), 0o644))
	time.Sleep(80 * time.Millisecond)

	for _, ev := range rec.snapshot() {
		assert.NotContains(t, ev.Path, "node_modules")
	}
}

func TestWatcher_ExtensionFilterExcludesNonMatching(t *testing.T) {
	dir := t.TempDir()

	w := watcher.New(nil)
	w.SetInterval(20 * time.Millisecond)
	w.SetExtensions([]string{".txt"})
	rec := &recorder{}
	w.OnEvent(rec.record)

	w.Watch(dir)
	defer w.Stop()
	time.Sleep(40 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.log"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracked.txt"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		for _, ev := range rec.snapshot() {
			if filepath.Base(ev.Path) == "tracked.txt" {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)

	for _, ev := range rec.snapshot() {
		assert.NotContains(t, ev.Path, "ignored.log")
	}
}

func TestWatcher_CallbackPanicDoesNotStopOtherCallbacks(t *testing.T) {
	dir := t.TempDir()

	w := watcher.New(nil)
	w.SetInterval(20 * time.Millisecond)
	rec := &recorder{}
	w.OnEvent(func(watcher.Event) { panic("boom") })
	w.OnEvent(rec.record)

	w.Watch(dir)
	defer w.Stop()
	time.Sleep(40 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) > 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_StopIsIdempotentAndWatchIsNoOpWhileRunning(t *testing.T) {
	dir := t.TempDir()
	w := watcher.New(nil)
	w.SetInterval(20 * time.Millisecond)

	w.Watch(dir)
	w.Watch(dir) // no-op while already running

	w.Stop()
	assert.NotPanics(t, w.Stop)
}
