package bridge_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/core/event"
	"github.com/opencursor/editorhost/core/worker"
	"github.com/opencursor/editorhost/core/watcher"
	"github.com/opencursor/editorhost/internal/bridge"
)

func TestWireWatcher_RepublishesCreatedEventOnBus(t *testing.T) {
	dir := t.TempDir()
	w := watcher.New(nil)
	w.SetInterval(50 * time.Millisecond)

	bus := event.New()
	bridge.WireWatcher(w, bus)

	var mu sync.Mutex
	var gotName string
	done := make(chan struct{})
	bus.On("file.created", func(ev event.Event) {
		mu.Lock()
		gotName = ev.Name
		mu.Unlock()
		close(done)
	}, 0)

	w.Watch(dir)
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for file.created")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "file.created", gotName)
}

func TestWireWorkerPool_RepublishesWorkerMessageOnBus(t *testing.T) {
	pool := worker.NewPool()
	bus := event.New()
	bridge.WireWorkerPool(pool, bus)

	done := make(chan string, 1)
	bus.On("worker.message", func(ev event.Event) {
		done <- string(ev.Payload)
	}, 0)

	id := pool.CreateWorkerFromSource(`self.on_message = function(e) { post_to_main("echo:" + e.data); };`)
	require.NotEmpty(t, id)

	deadline := time.After(2 * time.Second)
	for pool.State(id) != worker.StateRunning {
		select {
		case <-deadline:
			t.Fatal("worker never reached running state")
		case <-time.After(5 * time.Millisecond):
		}
	}

	require.True(t, pool.PostMessage(id, "hi"))

	for {
		pool.ProcessPendingMessages()
		select {
		case payload := <-done:
			assert.Contains(t, payload, "echo:hi")
			return
		case <-deadline:
			t.Fatal("timed out waiting for worker.message")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWireAll_RequiresBus(t *testing.T) {
	err := bridge.WireAll(nil, nil, nil)
	assert.Error(t, err)
}
