package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/opencursor/editorhost/core/command"
	"github.com/opencursor/editorhost/core/event"
	"github.com/opencursor/editorhost/core/i18n"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// clientFrame is a client-to-server WS frame: either a command dispatch
// ({cmd, args}) or the out-of-band {action: "requestSync"}.
type clientFrame struct {
	Cmd    string          `json:"cmd"`
	Args   json.RawMessage `json:"args"`
	Action string          `json:"action"`
}

// serverFrame is a server-to-client WS frame.
type serverFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// wsHandler upgrades qualifying requests and runs one read loop per
// connection: reads dispatch through router, the bus's emissions fan out to
// every connected client as server frames. Frames are written directly to
// the connection under a per-connection mutex; there is no separate write
// loop.
func wsHandler(cfg Config, router *command.Router, bus *event.Bus, i18nStore *i18n.I18n, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !wsTokenValid(cfg, r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		// Negotiated once at upgrade time: a WS connection has no per-frame
		// headers to renegotiate from, unlike the stateless /api/command route.
		lang := resolveLocale(r.Header.Get("Accept-Language"), r.URL.Query().Get("lang"), i18nStore)
		ctx := command.WithLocale(r.Context(), lang)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("ws upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		var writeMu sync.Mutex
		var closed atomic.Bool
		send := func(frame serverFrame) {
			if closed.Load() {
				return
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			_ = conn.WriteJSON(frame)
		}

		// Bus.On has no per-listener unsubscribe (only Off(name), which
		// would drop every other connection's wildcard listener), so this
		// closure outlives the connection and self-silences via closed.
		bus.On(event.WildcardName, func(ev event.Event) {
			var data any
			_ = json.Unmarshal(ev.Payload, &data)
			send(serverFrame{Event: ev.Name, Data: data})
		}, 0)
		defer closed.Store(true)

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var frame clientFrame
			if err := json.Unmarshal(raw, &frame); err != nil {
				continue
			}

			switch {
			case frame.Action == "requestSync":
				send(serverFrame{Event: "fullSync", Data: router.ListAll()})
			case frame.Cmd != "":
				args := frame.Args
				if args == nil {
					args = json.RawMessage("{}")
				}
				env := router.ExecuteWithResult(ctx, frame.Cmd, args)
				send(serverFrame{Event: "commandResult", Data: env})
			}
		}
	}
}
