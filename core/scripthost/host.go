package scripthost

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dop251/goja"

	"github.com/opencursor/editorhost/core/logger"
	"github.com/opencursor/editorhost/core/module"
)

// Task is a unit of work posted onto a Host's foreground queue. It runs on
// the Host's single owning goroutine, with exclusive access to the
// Runtime.
type Task func(rt *goja.Runtime)

// Host owns one goja.Runtime and a foreground task queue. Console and
// timer globals are installed at construction. All script evaluation and
// task execution happens on the goroutine that calls Run.
type Host struct {
	rt      *goja.Runtime
	loader  *module.Loader
	logger  *slog.Logger
	tasks   chan Task
	stopCh  chan struct{}
	stopped atomic.Bool

	timersMu sync.Mutex
	timers   map[uint64]*timerRecord
	nextID   atomic.Uint64
}

type timerRecord struct {
	cancelled atomic.Bool
}

// Option configures a Host at construction.
type Option func(*Host)

// WithLogger attaches a structured logger used by console bindings and
// internal diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithQueueSize overrides the foreground task queue's buffer capacity.
func WithQueueSize(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.tasks = make(chan Task, n)
		}
	}
}

// New creates a Host with console and timer globals installed, backed by a
// fresh goja.Runtime and a Loader rooted at configRoot.
func New(configRoot string, opts ...Option) *Host {
	h := &Host{
		rt:     goja.New(),
		tasks:  make(chan Task, 256),
		stopCh: make(chan struct{}),
		timers: make(map[uint64]*timerRecord),
		logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.loader = module.NewLoader(configRoot, h.logger)

	h.installConsole()
	h.installTimers()
	h.installSelf()

	return h
}

// Runtime returns the underlying goja.Runtime. Callers outside the Host's
// owning goroutine must go through Post rather than touching it directly.
func (h *Host) Runtime() *goja.Runtime { return h.rt }

// Loader returns the module loader bound to this Host's Runtime.
func (h *Host) Loader() *module.Loader { return h.loader }

// LoadModule loads and evaluates the module at path on the calling
// goroutine, which must be the Host's owning goroutine.
func (h *Host) LoadModule(path string) (goja.Value, error) {
	return h.loader.Load(h.rt, path)
}

// Post enqueues a task for execution on the Host's owning goroutine. Safe
// to call from any goroutine; a no-op once the Host is stopped.
func (h *Host) Post(t Task) {
	if h.stopped.Load() {
		return
	}
	select {
	case h.tasks <- t:
	case <-h.stopCh:
	}
}

// Run drains the task queue on the calling goroutine until Stop is called
// or ctx-equivalent shutdown is requested. It blocks; callers typically run
// it in its own goroutine.
func (h *Host) Run() {
	for {
		select {
		case <-h.stopCh:
			h.drain()
			return
		case task := <-h.tasks:
			h.safeRun(task)
		}
	}
}

func (h *Host) drain() {
	for {
		select {
		case task := <-h.tasks:
			h.safeRun(task)
		default:
			return
		}
	}
}

func (h *Host) safeRun(task Task) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("script task panicked", logger.Component("scripthost"), slog.Any("panic", r))
		}
	}()
	task(h.rt)
}

// Stop halts Run's loop after draining whatever is currently queued.
func (h *Host) Stop() {
	if h.stopped.CompareAndSwap(false, true) {
		close(h.stopCh)
	}
}

func (h *Host) installSelf() {
	_ = h.rt.Set("self", h.rt.GlobalObject())
}

func (h *Host) installConsole() {
	console := h.rt.NewObject()
	log := func(level string, logFn func(string, ...any)) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			msg := joinArgs(call.Arguments)
			logFn(msg, logger.Component("script"), slog.String("console_level", level))
			return goja.Undefined()
		}
	}
	_ = console.Set("log", log("log", h.logger.Info))
	_ = console.Set("warn", log("warn", h.logger.Warn))
	_ = console.Set("error", log("error", h.logger.Error))
	_ = console.Set("debug", log("debug", h.logger.Debug))
	_ = h.rt.Set("console", console)
}

func joinArgs(args []goja.Value) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		if goja.IsNull(a) || goja.IsUndefined(a) {
			out += "(null)"
			continue
		}
		out += fmt.Sprintf("%v", a.Export())
	}
	return out
}

// installTimers wires schedule_after(callback, delay_ms) -> timer_id and
// cancel_scheduled(timer_id) into the global object. A scheduled callback
// runs as a posted Task, so it always executes on the Host's owning
// goroutine, never on the waiter goroutine directly.
func (h *Host) installTimers() {
	_ = h.rt.Set("schedule_after", func(call goja.FunctionCall) goja.Value {
		callback, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(h.rt.NewTypeError("schedule_after: first argument must be a function"))
		}
		delayMS := call.Argument(1).ToInteger()

		id := h.nextID.Add(1)
		rec := &timerRecord{}
		h.timersMu.Lock()
		h.timers[id] = rec
		h.timersMu.Unlock()

		go func() {
			time.Sleep(time.Duration(delayMS) * time.Millisecond)
			h.Post(func(rt *goja.Runtime) {
				h.timersMu.Lock()
				current, ok := h.timers[id]
				h.timersMu.Unlock()
				if !ok || current.cancelled.Load() {
					return
				}
				if _, err := callback(goja.Undefined()); err != nil {
					h.logger.Error("timer callback failed", logger.Component("scripthost"), logger.Error(err))
				}
				h.timersMu.Lock()
				delete(h.timers, id)
				h.timersMu.Unlock()
			})
		}()

		return h.rt.ToValue(id)
	})

	_ = h.rt.Set("cancel_scheduled", func(call goja.FunctionCall) goja.Value {
		id := uint64(call.Argument(0).ToInteger())
		h.timersMu.Lock()
		defer h.timersMu.Unlock()
		if rec, ok := h.timers[id]; ok {
			rec.cancelled.Store(true)
			delete(h.timers, id)
		}
		return goja.Undefined()
	})
}
