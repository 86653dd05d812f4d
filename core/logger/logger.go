// Package logger provides structured logging built on log/slog: a functional
// options factory, environment presets (development/staging/production), and
// a context-aware handler that injects request-scoped attributes extracted
// from context.Context into every record.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ContextExtractor pulls one attribute out of a context, reporting whether
// it applied. Handlers registered via WithContextExtractors run, in order,
// on every Handle call.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type config struct {
	level      slog.Level
	json       bool
	output     io.Writer
	attrs      []slog.Attr
	handlerOpt *slog.HandlerOptions
	extractors []ContextExtractor
}

// Option configures a logger at construction time.
type Option func(*config)

// WithLevel sets the minimum level a record must reach to be emitted.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithJSONFormatter selects slog.JSONHandler as the output encoding.
func WithJSONFormatter() Option {
	return func(c *config) { c.json = true }
}

// WithTextFormatter selects slog.TextHandler as the output encoding.
func WithTextFormatter() Option {
	return func(c *config) { c.json = false }
}

// WithOutput sets the destination writer. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr attaches static attributes to every record emitted by the
// resulting logger.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) { c.attrs = append(c.attrs, attrs...) }
}

// WithHandlerOptions overrides the slog.HandlerOptions passed to the
// underlying handler, taking precedence over WithLevel.
func WithHandlerOptions(opts *slog.HandlerOptions) Option {
	return func(c *config) { c.handlerOpt = opts }
}

// WithContextExtractors registers functions that pull attributes out of a
// context.Context on every log call made through the *Context methods.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) { c.extractors = append(c.extractors, extractors...) }
}

// WithContextValue registers a simple extractor that copies ctx.Value(ctxKey)
// into an attribute named attrKey, when present and non-empty.
func WithContextValue(ctxKey, attrKey string) Option {
	return func(c *config) {
		c.extractors = append(c.extractors, func(ctx context.Context) (slog.Attr, bool) {
			v := ctx.Value(ctxKey)
			if v == nil {
				return slog.Attr{}, false
			}
			if s, ok := v.(string); ok && s == "" {
				return slog.Attr{}, false
			}
			return slog.Any(attrKey, v), true
		})
	}
}

// WithDevelopment configures a human-readable, debug-level text logger
// writing to stdout, tagged with a "service" attribute.
func WithDevelopment(service string) Option {
	return func(c *config) {
		c.json = false
		c.level = slog.LevelDebug
		c.output = os.Stdout
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("env", "development"))
	}
}

// WithStaging configures an info-level JSON logger writing to stdout.
func WithStaging(service string) Option {
	return func(c *config) {
		c.json = true
		c.level = slog.LevelInfo
		c.output = os.Stdout
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("env", "staging"))
	}
}

// WithProduction configures an info-level JSON logger writing to stdout.
func WithProduction(service string) Option {
	return func(c *config) {
		c.json = true
		c.level = slog.LevelInfo
		c.output = os.Stdout
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("env", "production"))
	}
}

// New builds a *slog.Logger from options. With no options, it produces an
// info-level JSON logger writing to stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		json:   true,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := c.handlerOpt
	if handlerOpts == nil {
		handlerOpts = &slog.HandlerOptions{Level: c.level}
	}

	var handler slog.Handler
	if c.json {
		handler = slog.NewJSONHandler(c.output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(c.output, handlerOpts)
	}

	if len(c.extractors) > 0 {
		handler = &contextHandler{Handler: handler, extractors: c.extractors}
	}

	logger := slog.New(handler)
	if len(c.attrs) > 0 {
		args := make([]any, len(c.attrs))
		for i, a := range c.attrs {
			args[i] = a
		}
		logger = logger.With(args...)
	}
	return logger
}

// SetAsDefault installs l as the process-wide slog default logger.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// contextHandler decorates a slog.Handler, running every registered
// extractor against the record's context and adding whatever attributes
// they return.
type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, extract := range h.extractors {
		if attr, ok := extract(ctx); ok {
			r.AddAttrs(attr)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}
