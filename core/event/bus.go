package event

import (
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

const (
	// DefaultQueueSize is the default capacity of the async dispatch queue.
	DefaultQueueSize = 256

	stateRunning int32 = iota
	stateStopping
	stateStopped
)

// Bus is a prioritized, asynchronous pub/sub dispatcher. It owns exactly one
// background dispatch goroutine for async Emit delivery; EmitSync runs on
// the caller's goroutine. The zero value is not usable — construct with
// New.
type Bus struct {
	mu        sync.Mutex
	listeners map[string][]registration

	queue  chan Event
	stopCh chan struct{}
	wg     sync.WaitGroup

	state  atomic.Int32
	logger *slog.Logger
}

// Option configures a Bus at construction time.
type Option func(*Bus)

// WithLogger attaches a structured logger. The zero value logs to
// io.Discard.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithQueueSize overrides the async dispatch queue's buffer capacity.
func WithQueueSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.queue = make(chan Event, n)
		}
	}
}

// New creates a running Bus and starts its dispatch goroutine.
func New(opts ...Option) *Bus {
	b := &Bus{
		listeners: make(map[string][]registration),
		queue:     make(chan Event, DefaultQueueSize),
		stopCh:    make(chan struct{}),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.state.Store(stateRunning)

	b.wg.Add(1)
	go b.dispatchLoop()

	return b
}

// On registers a persistent listener for name with the given priority.
// Higher priority runs first; ties preserve insertion order. No-op once the
// bus is stopping or stopped.
func (b *Bus) On(name string, h Handler, priority int) {
	b.subscribe(name, h, priority, false)
}

// Once registers a listener that fires at most once for name, then is
// removed.
func (b *Bus) Once(name string, h Handler, priority int) {
	b.subscribe(name, h, priority, true)
}

func (b *Bus) subscribe(name string, h Handler, priority int, once bool) {
	if b.state.Load() != stateRunning {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[name] = append(b.listeners[name], registration{handler: h, priority: priority, once: once})
	sort.SliceStable(b.listeners[name], func(i, j int) bool {
		return b.listeners[name][i].priority > b.listeners[name][j].priority
	})
}

// Off removes every listener registered for name.
func (b *Bus) Off(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners, name)
}

// Emit enqueues the event for asynchronous delivery on the dispatch
// goroutine and returns immediately. A no-op once the bus is stopping or
// stopped.
func (b *Bus) Emit(name string, payload []byte) {
	if b.state.Load() != stateRunning {
		return
	}

	select {
	case b.queue <- Event{Name: name, Payload: payload}:
	case <-b.stopCh:
	}
}

// EmitSync delivers the event on the caller's goroutine before returning:
// first to name's exact listeners in priority order, then to "*" listeners
// in priority order. EmitSync("*") triggers only "*"-registered listeners,
// never a merge with every other event's listeners.
//
// The listener mutex is never held while invoking callbacks: matching
// listeners are snapshotted under lock, the lock is released, callbacks run,
// then the lock is retaken to prune fired "once" entries.
func (b *Bus) EmitSync(name string, payload []byte) {
	ev := Event{Name: name, Payload: payload}

	b.mu.Lock()
	exact := append([]registration(nil), b.listeners[name]...)
	var wildcard []registration
	if name != WildcardName {
		wildcard = append([]registration(nil), b.listeners[WildcardName]...)
	}
	b.mu.Unlock()

	invoke := func(regs []registration) {
		for _, reg := range regs {
			b.safeCall(reg.handler, ev, name)
		}
	}
	invoke(exact)
	invoke(wildcard)

	if len(exact) == 0 && len(wildcard) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	pruneOnce(b.listeners, name)
	if name != WildcardName {
		pruneOnce(b.listeners, WildcardName)
	}
}

func pruneOnce(listeners map[string][]registration, name string) {
	regs, ok := listeners[name]
	if !ok {
		return
	}
	kept := regs[:0]
	for _, r := range regs {
		if !r.once {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		delete(listeners, name)
		return
	}
	listeners[name] = kept
}

func (b *Bus) safeCall(h Handler, ev Event, eventName string) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event listener panicked",
				slog.String("event", eventName), slog.Any("panic", r))
		}
	}()
	h(ev)
}

func (b *Bus) dispatchLoop() {
	defer b.wg.Done()
	for {
		select {
		case <-b.stopCh:
			return
		case ev, ok := <-b.queue:
			if !ok {
				return
			}
			b.EmitSync(ev.Name, ev.Payload)
		}
	}
}

// Shutdown idempotently stops the dispatch goroutine, drains and drops the
// queue, and clears every listener. Safe to call more than once.
func (b *Bus) Shutdown() {
	if !b.state.CompareAndSwap(stateRunning, stateStopping) {
		return
	}

	close(b.stopCh)
	b.wg.Wait()

drain:
	for {
		select {
		case <-b.queue:
		default:
			break drain
		}
	}

	b.mu.Lock()
	b.listeners = make(map[string][]registration)
	b.mu.Unlock()

	b.state.Store(stateStopped)
	b.logger.Info("event bus shutdown complete")
}
