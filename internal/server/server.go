// Package server exposes the host's Command Router and Event Bus over
// HTTP and WebSocket, per the external interfaces contract: POST
// /api/command, GET /api/commands, and a /ws channel carrying {cmd,args}
// dispatches and {event,data} pushes.
package server

import (
	"context"
	"log/slog"

	"github.com/opencursor/editorhost/core/command"
	"github.com/opencursor/editorhost/core/event"
	"github.com/opencursor/editorhost/core/i18n"
	coreserver "github.com/opencursor/editorhost/core/server"
)

// Serve builds the HTTP/WS handler for router and bus and runs it on
// cfg.ListenAddr until ctx is canceled, performing a graceful shutdown on
// exit. It serves plain HTTP unless opts include coreserver.WithTLS.
// i18nStore may be nil, in which case every request gets the Router's
// static default language.
func Serve(ctx context.Context, cfg Config, router *command.Router, bus *event.Bus, i18nStore *i18n.I18n, logger *slog.Logger, opts ...coreserver.Option) error {
	if logger == nil {
		logger = slog.Default()
	}

	handler := NewHandler(cfg, router, bus, i18nStore, logger)

	allOpts := append([]coreserver.Option{
		coreserver.WithLogger(logger),
		coreserver.WithShutdownTimeout(cfg.ShutdownTimeout),
	}, opts...)

	srv := coreserver.New(cfg.ListenAddr, allOpts...)
	return srv.Start(ctx, handler)
}
