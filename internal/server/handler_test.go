package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/core/command"
	"github.com/opencursor/editorhost/core/event"
	"github.com/opencursor/editorhost/core/i18n"
	"github.com/opencursor/editorhost/core/response"
	"github.com/opencursor/editorhost/internal/server"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func newRouter() *command.Router {
	r := command.New()
	r.RegisterCommand("noop", func(ctx context.Context, args json.RawMessage) error { return nil })
	return r
}

func TestCommandHandler_DispatchesThroughRouterAndReturnsEnvelope(t *testing.T) {
	router := newRouter()
	bus := event.New()
	cfg := server.Config{}
	h := server.NewHandler(cfg, router, bus, nil, nil)

	srv := &http.Server{Handler: h}
	addr := freeAddr(t)
	l, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	go srv.Serve(l)
	defer srv.Close()
	time.Sleep(20 * time.Millisecond)

	body, _ := json.Marshal(map[string]any{"cmd": "noop", "args": map[string]int{"x": 1}})
	resp, err := http.Post(fmt.Sprintf("http://%s/api/command", addr), "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env response.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.True(t, env.OK)
}

func TestCommandHandler_RequiresBearerTokenWhenConfigured(t *testing.T) {
	router := newRouter()
	bus := event.New()
	cfg := server.Config{AuthToken: "secret"}
	h := server.NewHandler(cfg, router, bus, nil, nil)

	srv := &http.Server{Handler: h}
	addr := freeAddr(t)
	l, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	go srv.Serve(l)
	defer srv.Close()
	time.Sleep(20 * time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://%s/api/commands", addr))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var env response.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("http://%s/api/commands", addr), nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestWSHandler_RequestSyncRepliesWithFullSync(t *testing.T) {
	router := newRouter()
	bus := event.New()
	cfg := server.Config{}
	h := server.NewHandler(cfg, router, bus, nil, nil)

	srv := &http.Server{Handler: h}
	addr := freeAddr(t)
	l, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	go srv.Serve(l)
	defer srv.Close()
	time.Sleep(20 * time.Millisecond)

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws", addr), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "requestSync"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Event string `json:"event"`
	}
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "fullSync", frame.Event)
}

func TestWSHandler_RejectsMismatchedToken(t *testing.T) {
	router := newRouter()
	bus := event.New()
	cfg := server.Config{AuthToken: "secret"}
	h := server.NewHandler(cfg, router, bus, nil, nil)

	srv := &http.Server{Handler: h}
	addr := freeAddr(t)
	l, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	go srv.Serve(l)
	defer srv.Close()
	time.Sleep(20 * time.Millisecond)

	_, resp, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?token=wrong", addr), nil)
	require.Error(t, err)
	if resp != nil {
		defer resp.Body.Close()
		_, _ = io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

// langEchoLocalizer renders a message as "<lang>:<key>" so a test can tell
// which language the Router resolved for a given request.
type langEchoLocalizer struct{}

func (langEchoLocalizer) T(lang, key string, _ map[string]any) string {
	return lang + ":" + key
}

func TestCommandHandler_NegotiatesLocaleFromAcceptLanguageHeader(t *testing.T) {
	store, err := i18n.New(i18n.WithLanguages("en", "fr"))
	require.NoError(t, err)

	router := command.New(command.WithLocalizer(langEchoLocalizer{}, "en"))
	bus := event.New()
	cfg := server.Config{}
	h := server.NewHandler(cfg, router, bus, store, nil)

	srv := &http.Server{Handler: h}
	addr := freeAddr(t)
	l, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	go srv.Serve(l)
	defer srv.Close()
	time.Sleep(20 * time.Millisecond)

	body, _ := json.Marshal(map[string]any{"cmd": "unknown.command"})
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("http://%s/api/command", addr), bytes.NewReader(body))
	req.Header.Set("Accept-Language", "fr")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env response.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NotNil(t, env.Message)
	assert.Equal(t, "fr:command.not_found", *env.Message)
}

func TestCommandHandler_LangQueryParamTakesPrecedenceOverHeader(t *testing.T) {
	store, err := i18n.New(i18n.WithLanguages("en", "fr"))
	require.NoError(t, err)

	router := command.New(command.WithLocalizer(langEchoLocalizer{}, "en"))
	bus := event.New()
	cfg := server.Config{}
	h := server.NewHandler(cfg, router, bus, store, nil)

	srv := &http.Server{Handler: h}
	addr := freeAddr(t)
	l, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	go srv.Serve(l)
	defer srv.Close()
	time.Sleep(20 * time.Millisecond)

	body, _ := json.Marshal(map[string]any{"cmd": "unknown.command"})
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("http://%s/api/command?lang=fr", addr), bytes.NewReader(body))
	req.Header.Set("Accept-Language", "en")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env response.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NotNil(t, env.Message)
	assert.Equal(t, "fr:command.not_found", *env.Message)
}
