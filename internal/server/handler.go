package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/opencursor/editorhost/core/command"
	"github.com/opencursor/editorhost/core/event"
	"github.com/opencursor/editorhost/core/i18n"
	"github.com/opencursor/editorhost/core/response"
)

// commandRequest is the POST /api/command body shape.
type commandRequest struct {
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args"`
}

// NewHandler builds the HTTP/WS mux for the host's external interface
// (spec §6): POST /api/command, GET /api/commands, and GET /ws. Every HTTP
// route other than the WS upgrade is wrapped with bearer-token
// enforcement when cfg.RequireAuth() is true. i18nStore, when non-nil, is
// used to negotiate each request's envelope language from its
// Accept-Language header or a "lang" query parameter; a nil store leaves
// the Router's static default language in place.
func NewHandler(cfg Config, router *command.Router, bus *event.Bus, i18nStore *i18n.I18n, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/api/command", requireBearer(cfg, commandHandler(router, i18nStore)))
	mux.Handle("/api/commands", requireBearer(cfg, commandsHandler(router)))
	mux.Handle("/ws", wsHandler(cfg, router, bus, i18nStore, logger))

	return mux
}

func writeJSON(w http.ResponseWriter, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func writeEnvelope(w http.ResponseWriter, env response.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	if !env.OK {
		w.WriteHeader(http.StatusOK)
	}
	_ = writeJSON(w, env)
}

func commandHandler(router *command.Router, i18nStore *i18n.I18n) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			writeEnvelope(w, response.Simple("PARSE_ERROR"))
			return
		}

		var req commandRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeEnvelope(w, response.Simple("PARSE_ERROR"))
			return
		}

		args := req.Args
		if args == nil {
			args = json.RawMessage("{}")
		}

		lang := resolveLocale(r.Header.Get("Accept-Language"), r.URL.Query().Get("lang"), i18nStore)
		ctx := command.WithLocale(r.Context(), lang)
		env := router.ExecuteWithResult(ctx, req.Cmd, args)
		writeEnvelope(w, env)
	}
}

func commandsHandler(router *command.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, router.ListAll())
	}
}
