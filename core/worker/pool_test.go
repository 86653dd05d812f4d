package worker_test

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/core/worker"
)

func waitForState(t *testing.T, p *worker.Pool, id string, want worker.State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.State(id) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("worker %s never reached state %s (last seen %s)", id, want, p.State(id))
}

func TestPool_CreateWorkerFromSourceTransitionsToRunning(t *testing.T) {
	t.Parallel()
	p := worker.NewPool()
	defer p.TerminateAll()

	id := p.CreateWorkerFromSource(`self.on_message = function(e) {};`)
	waitForState(t, p, id, worker.StateRunning)
	assert.Equal(t, 1, p.ActiveCount())
}

func TestPool_CreateWorkerSyntaxErrorTransitionsToError(t *testing.T) {
	t.Parallel()
	p := worker.NewPool()
	defer p.TerminateAll()

	id := p.CreateWorkerFromSource(`this is not ((( valid`)
	waitForState(t, p, id, worker.StateError)
	assert.Equal(t, 0, p.ActiveCount())
}

func TestPool_CreateWorkerReadFailureReturnsError(t *testing.T) {
	t.Parallel()
	p := worker.NewPool()

	_, err := p.CreateWorker(filepath.Join(t.TempDir(), "absent.js"))
	assert.Error(t, err)
}

func TestPool_PostMessageDeliversToOnMessageAndPostsBack(t *testing.T) {
	t.Parallel()
	p := worker.NewPool()
	defer p.TerminateAll()

	var mu sync.Mutex
	var received []string
	done := make(chan struct{}, 1)
	p.SetMessageCallback(func(workerID, message string) {
		mu.Lock()
		received = append(received, message)
		mu.Unlock()
		done <- struct{}{}
	})

	id := p.CreateWorkerFromSource(`
		self.on_message = function(e) {
			post_to_main("echo:" + e.data);
		};
	`)
	waitForState(t, p, id, worker.StateRunning)

	require.True(t, p.PostMessage(id, "hello"))

	deadline := time.After(2 * time.Second)
	for {
		p.ProcessPendingMessages()
		select {
		case <-done:
			mu.Lock()
			assert.Contains(t, received, "echo:hello")
			mu.Unlock()
			return
		case <-deadline:
			t.Fatal("never received echoed message")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPool_PostMessageToUnknownWorkerReturnsFalse(t *testing.T) {
	t.Parallel()
	p := worker.NewPool()
	assert.False(t, p.PostMessage("nonexistent", "x"))
}

func TestPool_TerminateStopsWorkerAndRemovesRecord(t *testing.T) {
	t.Parallel()
	p := worker.NewPool()

	id := p.CreateWorkerFromSource(`self.on_message = function(e) {};`)
	waitForState(t, p, id, worker.StateRunning)

	require.True(t, p.Terminate(id))
	assert.Equal(t, worker.State(""), p.State(id))
	assert.Equal(t, 0, p.ActiveCount())
}

func TestPool_TerminateUnknownWorkerReturnsFalse(t *testing.T) {
	t.Parallel()
	p := worker.NewPool()
	assert.False(t, p.Terminate("nonexistent"))
}

func TestPool_TerminateAllStopsEveryWorker(t *testing.T) {
	t.Parallel()
	p := worker.NewPool()

	id1 := p.CreateWorkerFromSource(`self.on_message = function(e) {};`)
	id2 := p.CreateWorkerFromSource(`self.on_message = function(e) {};`)
	waitForState(t, p, id1, worker.StateRunning)
	waitForState(t, p, id2, worker.StateRunning)

	p.TerminateAll()
	assert.Equal(t, 0, p.ActiveCount())
}
