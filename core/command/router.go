package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/opencursor/editorhost/core/response"
)

// Router is the single point of dispatch from any caller — HTTP handler, WS
// frame, or script — to a native mutation or query. The registry itself is
// guarded by a single mutex; a handler is copied out of the map and the lock
// released before it runs, so a handler that itself registers or lists
// commands never deadlocks against the registry it is calling into.
type Router struct {
	mu        sync.RWMutex
	mutations map[string]Mutation
	queries   map[string]Query

	logger *slog.Logger
	loc    response.Localizer
	lang   string
}

// Option configures a Router at construction time.
type Option func(*Router)

type localeCtxKey struct{}

// WithLocale returns a context carrying a per-request language override for
// envelope messages. The HTTP/WS transport resolves this from a request's
// Accept-Language header (or a "lang" query parameter) before dispatching;
// ExecuteWithResult prefers it over the Router's static default language.
func WithLocale(ctx context.Context, lang string) context.Context {
	if lang == "" {
		return ctx
	}
	return context.WithValue(ctx, localeCtxKey{}, lang)
}

func (r *Router) localeFor(ctx context.Context) string {
	if lang, ok := ctx.Value(localeCtxKey{}).(string); ok && lang != "" {
		return lang
	}
	return r.lang
}

// WithLogger attaches a structured logger. The zero value logs to io.Discard.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithLocalizer attaches the translation service used to resolve envelope
// message keys, and the language envelopes are rendered in.
func WithLocalizer(loc response.Localizer, lang string) Option {
	return func(r *Router) {
		r.loc = loc
		if lang != "" {
			r.lang = lang
		}
	}
}

// New creates an empty Router.
func New(opts ...Option) *Router {
	r := &Router{
		mutations: make(map[string]Mutation),
		queries:   make(map[string]Query),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		lang:      "en",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterCommand adds a mutation under name. Returns false without
// modifying the registry if name is already bound to a mutation or a query.
// Registration is additive — there is no re-bind.
func (r *Router) RegisterCommand(name string, h Mutation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.mutations[name]; exists {
		return false
	}
	if _, exists := r.queries[name]; exists {
		return false
	}
	r.mutations[name] = h
	return true
}

// RegisterQuery adds a query under name. Same uniqueness rule as
// RegisterCommand.
func (r *Router) RegisterQuery(name string, h Query) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.mutations[name]; exists {
		return false
	}
	if _, exists := r.queries[name]; exists {
		return false
	}
	r.queries[name] = h
	return true
}

// Exists reports whether name is bound to a mutation or a query.
func (r *Router) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.mutations[name]; ok {
		return true
	}
	_, ok := r.queries[name]
	return ok
}

// Execute is a convenience wrapper over ExecuteWithResult that returns only
// the envelope's OK field.
func (r *Router) Execute(ctx context.Context, name string, args json.RawMessage) bool {
	return r.ExecuteWithResult(ctx, name, args).OK
}

// ExecuteWithResult dispatches name through the registry and always returns
// a well-formed Envelope: it never panics and never returns a bare Go error.
func (r *Router) ExecuteWithResult(ctx context.Context, name string, args json.RawMessage) response.Envelope {
	r.mu.RLock()
	mutation, isMutation := r.mutations[name]
	query, isQuery := r.queries[name]
	r.mu.RUnlock()

	switch {
	case isMutation:
		return r.runMutation(ctx, name, args, mutation)
	case isQuery:
		return r.runQuery(ctx, name, args, query)
	default:
		return response.Error("NOT_FOUND", "command.not_found", map[string]any{"name": name}, r.localeFor(ctx), r.loc)
	}
}

func (r *Router) runMutation(ctx context.Context, name string, args json.RawMessage, h Mutation) (env response.Envelope) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("command handler panicked", slog.String("name", name), slog.Any("panic", p))
			env = response.Error("COMMAND_ERROR", "command.error", map[string]any{"name": name, "error": fmt.Sprintf("%v", p)}, r.localeFor(ctx), r.loc)
		}
	}()

	if err := h(ctx, args); err != nil {
		r.logger.Error("command handler failed", slog.String("name", name), slog.String("error", err.Error()))
		return response.Error("COMMAND_ERROR", "command.error", map[string]any{"name": name, "error": err.Error()}, r.localeFor(ctx), r.loc)
	}
	return response.Ok(true, nil, "")
}

func (r *Router) runQuery(ctx context.Context, name string, args json.RawMessage, h Query) (env response.Envelope) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("query handler panicked", slog.String("name", name), slog.Any("panic", p))
			env = response.Error("QUERY_ERROR", "command.error", map[string]any{"name": name, "error": fmt.Sprintf("%v", p)}, r.localeFor(ctx), r.loc)
		}
	}()

	result, err := h(ctx, args)
	if err != nil {
		r.logger.Error("query handler failed", slog.String("name", name), slog.String("error", err.Error()))
		return response.Error("QUERY_ERROR", "command.error", map[string]any{"name": name, "error": err.Error()}, r.localeFor(ctx), r.loc)
	}
	return response.Ok(result, nil, "")
}

// ListAll returns an envelope describing every registered name, split by
// variant, with cardinalities.
func (r *Router) ListAll() response.Envelope {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]string, 0, len(r.mutations))
	for name := range r.mutations {
		commands = append(commands, name)
	}
	queries := make([]string, 0, len(r.queries))
	for name := range r.queries {
		queries = append(queries, name)
	}

	return response.Ok(map[string]any{
		"commands":     commands,
		"queries":      queries,
		"commandCount": len(commands),
		"queryCount":   len(queries),
	}, nil, "")
}
