package worker

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/google/uuid"

	"github.com/opencursor/editorhost/core/logger"
)

// outboundMessage is one {id, message} pair produced by a worker for
// delivery to the main-thread callback.
type outboundMessage struct {
	id      string
	message string
}

// MessageCallback is invoked once per inbound message, on the main thread,
// during ProcessPendingMessages.
type MessageCallback func(workerID, message string)

// Pool manages a set of isolated worker goroutines, each with its own
// goja.Runtime. The pool mutex is never held while joining a worker
// goroutine.
type Pool struct {
	mu      sync.Mutex
	workers map[string]*record
	logger  *slog.Logger

	outboundMu sync.Mutex
	outbound   []outboundMessage

	callbackMu sync.Mutex
	callback   MessageCallback
}

// Option configures a Pool at construction.
type Option func(*Pool)

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool builds an empty worker Pool.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		workers: make(map[string]*record),
		logger:  slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateWorker reads script from path, caching the source, creates a
// Pending record, and spawns its goroutine. Returns an error id ("") on
// read failure.
func (p *Pool) CreateWorker(path string) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", fmt.Errorf("worker: reading %s: %w", path, err)
	}
	return p.spawn(string(data)), nil
}

// CreateWorkerFromSource is CreateWorker with inline source instead of a
// file path.
func (p *Pool) CreateWorkerFromSource(source string) string {
	return p.spawn(source)
}

func (p *Pool) spawn(source string) string {
	id := uuid.NewString()
	rec := newRecord(id, source)

	p.mu.Lock()
	p.workers[id] = rec
	p.mu.Unlock()

	go p.run(rec)

	return id
}

// PostMessage enqueues msg on worker id's inbound queue. Returns false if
// the worker is unknown or not Running.
func (p *Pool) PostMessage(id, msg string) bool {
	p.mu.Lock()
	rec, ok := p.workers[id]
	p.mu.Unlock()
	if !ok || rec.getState() != StateRunning {
		return false
	}

	select {
	case rec.inbound <- msg:
		return true
	case <-rec.cancel:
		return false
	}
}

// Terminate signals worker id to stop, waits for its goroutine to exit,
// then removes its record. Returns false if id is unknown.
func (p *Pool) Terminate(id string) bool {
	p.mu.Lock()
	rec, ok := p.workers[id]
	p.mu.Unlock()
	if !ok {
		return false
	}

	closeOnce(rec.cancel)
	<-rec.done // never hold p.mu while joining

	p.mu.Lock()
	delete(p.workers, id)
	p.mu.Unlock()
	return true
}

// TerminateAll terminates every known worker.
func (p *Pool) TerminateAll() {
	p.mu.Lock()
	ids := make([]string, 0, len(p.workers))
	for id := range p.workers {
		ids = append(ids, id)
	}
	p.mu.Unlock()

	for _, id := range ids {
		p.Terminate(id)
	}
}

// State reports worker id's current lifecycle stage, or "" if unknown.
func (p *Pool) State(id string) State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rec, ok := p.workers[id]; ok {
		return rec.getState()
	}
	return ""
}

// ActiveCount returns how many workers are currently Running.
func (p *Pool) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, rec := range p.workers {
		if rec.getState() == StateRunning {
			count++
		}
	}
	return count
}

// SetMessageCallback registers the callback invoked once per inbound
// message during ProcessPendingMessages.
func (p *Pool) SetMessageCallback(cb MessageCallback) {
	p.callbackMu.Lock()
	p.callback = cb
	p.callbackMu.Unlock()
}

// ProcessPendingMessages drains the outbound queue and delivers each
// message to the registered callback. MUST be called only from the main
// thread.
func (p *Pool) ProcessPendingMessages() {
	p.outboundMu.Lock()
	pending := p.outbound
	p.outbound = nil
	p.outboundMu.Unlock()

	p.callbackMu.Lock()
	cb := p.callback
	p.callbackMu.Unlock()
	if cb == nil {
		return
	}
	for _, m := range pending {
		cb(m.id, m.message)
	}
}

func (p *Pool) postToMain(id, message string) {
	p.outboundMu.Lock()
	p.outbound = append(p.outbound, outboundMessage{id: id, message: message})
	p.outboundMu.Unlock()
}

// run is the worker thread lifecycle: create a fresh Runtime, inject
// post_to_main/console/self, evaluate the script, then loop delivering
// inbound messages to on_message until cancelled.
func (p *Pool) run(rec *record) {
	defer close(rec.done)

	rt := goja.New()
	rec.setState(StateRunning)

	_ = rt.Set("post_to_main", func(call goja.FunctionCall) goja.Value {
		p.postToMain(rec.id, call.Argument(0).String())
		return goja.Undefined()
	})
	p.installConsole(rt, rec.id)
	_ = rt.Set("self", rt.GlobalObject())

	if _, err := rt.RunString(rec.source); err != nil {
		p.logger.Error("worker script failed to evaluate", logger.WorkerIDStr(rec.id), logger.Error(err))
		rec.setState(StateError)
		return
	}

	p.messageLoop(rt, rec)

	rec.setState(StateStopped)
}

func (p *Pool) messageLoop(rt *goja.Runtime, rec *record) {
	const pollInterval = 100 * time.Millisecond
	for {
		select {
		case <-rec.cancel:
			return
		case msg := <-rec.inbound:
			p.deliver(rt, rec, msg)
		case <-time.After(pollInterval):
			select {
			case <-rec.cancel:
				return
			default:
			}
		}
	}
}

func (p *Pool) deliver(rt *goja.Runtime, rec *record, msg string) {
	onMessage := rt.GlobalObject().Get("on_message")
	if onMessage == nil || goja.IsUndefined(onMessage) {
		return
	}
	fn, ok := goja.AssertFunction(onMessage)
	if !ok {
		return
	}

	event := rt.NewObject()
	_ = event.Set("data", msg)

	if _, err := fn(goja.Undefined(), event); err != nil {
		p.logger.Error("worker on_message callback failed", logger.WorkerIDStr(rec.id), logger.Error(err))
	}
}

func (p *Pool) installConsole(rt *goja.Runtime, workerID string) {
	console := rt.NewObject()
	wrap := func(logFn func(string, ...any)) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			msg := ""
			for i, a := range call.Arguments {
				if i > 0 {
					msg += " "
				}
				msg += a.String()
			}
			logFn(msg, logger.WorkerIDStr(workerID))
			return goja.Undefined()
		}
	}
	_ = console.Set("log", wrap(p.logger.Info))
	_ = console.Set("warn", wrap(p.logger.Warn))
	_ = console.Set("error", wrap(p.logger.Error))
	_ = console.Set("debug", wrap(p.logger.Debug))
	_ = rt.Set("console", console)
}

func closeOnce(ch chan struct{}) {
	select {
	case <-ch:
	default:
		close(ch)
	}
}
