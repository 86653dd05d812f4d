package main

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall"

	"github.com/opencursor/editorhost/core/command"
	"github.com/opencursor/editorhost/core/process"
	"github.com/opencursor/editorhost/core/worker"
)

// registerWorkerCommands exposes the Worker Pool's operations through the
// Command Router, so HTTP/WS callers (and scripts, via editor.command.call)
// reach it the same way they reach every other subsystem.
func registerWorkerCommands(router *command.Router, pool *worker.Pool) {
	router.RegisterQuery("worker.createFromSource", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Source string `json:"source"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("worker.createFromSource: %w", err)
		}
		return map[string]any{"id": pool.CreateWorkerFromSource(req.Source)}, nil
	})

	router.RegisterCommand("worker.postMessage", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("worker.postMessage: %w", err)
		}
		if !pool.PostMessage(req.ID, req.Message) {
			return fmt.Errorf("worker.postMessage: worker %q is not running", req.ID)
		}
		return nil
	})

	router.RegisterCommand("worker.terminate", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("worker.terminate: %w", err)
		}
		if !pool.Terminate(req.ID) {
			return fmt.Errorf("worker.terminate: unknown worker %q", req.ID)
		}
		return nil
	})

	router.RegisterCommand("worker.terminateAll", func(_ context.Context, _ json.RawMessage) error {
		pool.TerminateAll()
		return nil
	})

	router.RegisterQuery("worker.state", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("worker.state: %w", err)
		}
		return map[string]any{"state": string(pool.State(req.ID))}, nil
	})

	router.RegisterQuery("worker.activeCount", func(_ context.Context, _ json.RawMessage) (any, error) {
		return map[string]any{"count": pool.ActiveCount()}, nil
	})
}

// namedSignals maps the signal names a script or HTTP caller can send to
// process.signal onto the os.Signal values Manager.Signal expects.
var namedSignals = map[string]syscall.Signal{
	"SIGHUP":  syscall.SIGHUP,
	"SIGINT":  syscall.SIGINT,
	"SIGQUIT": syscall.SIGQUIT,
	"SIGTERM": syscall.SIGTERM,
	"SIGKILL": syscall.SIGKILL,
	"SIGUSR1": syscall.SIGUSR1,
	"SIGUSR2": syscall.SIGUSR2,
}

// registerProcessCommands exposes the Process Manager's operations through
// the Command Router.
func registerProcessCommands(router *command.Router, procs *process.Manager) {
	router.RegisterQuery("process.spawn", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Command     string   `json:"command"`
			Argv        []string `json:"argv"`
			Cwd         string   `json:"cwd"`
			Env         []string `json:"env"`
			MergeStderr bool     `json:"mergeStderr"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("process.spawn: %w", err)
		}
		id, err := procs.Spawn(req.Command, req.Argv, process.Options{
			Cwd:         req.Cwd,
			Env:         req.Env,
			MergeStderr: req.MergeStderr,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": id}, nil
	})

	router.RegisterCommand("process.write", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			ID   uint64 `json:"id"`
			Data string `json:"data"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("process.write: %w", err)
		}
		if !procs.Write(req.ID, []byte(req.Data)) {
			return fmt.Errorf("process.write: stdin closed for process %d", req.ID)
		}
		return nil
	})

	router.RegisterCommand("process.closeStdin", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			ID uint64 `json:"id"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("process.closeStdin: %w", err)
		}
		if !procs.CloseStdin(req.ID) {
			return fmt.Errorf("process.closeStdin: unknown process %d", req.ID)
		}
		return nil
	})

	router.RegisterCommand("process.signal", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			ID     uint64 `json:"id"`
			Signal string `json:"signal"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("process.signal: %w", err)
		}
		sig, ok := namedSignals[req.Signal]
		if !ok {
			return fmt.Errorf("process.signal: unsupported signal %q", req.Signal)
		}
		if !procs.Signal(req.ID, sig) {
			return fmt.Errorf("process.signal: process %d already exited", req.ID)
		}
		return nil
	})

	router.RegisterCommand("process.kill", func(_ context.Context, args json.RawMessage) error {
		var req struct {
			ID uint64 `json:"id"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return fmt.Errorf("process.kill: %w", err)
		}
		if !procs.Kill(req.ID) {
			return fmt.Errorf("process.kill: process %d already exited", req.ID)
		}
		return nil
	})

	router.RegisterQuery("process.isRunning", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			ID uint64 `json:"id"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("process.isRunning: %w", err)
		}
		return map[string]any{"running": procs.IsRunning(req.ID)}, nil
	})

	router.RegisterQuery("process.list", func(_ context.Context, _ json.RawMessage) (any, error) {
		handles := procs.List()
		out := make([]map[string]any, len(handles))
		for i, h := range handles {
			out[i] = map[string]any{
				"id":      h.ID,
				"command": h.Command,
				"argv":    h.Argv,
				"running": h.IsRunning(),
			}
		}
		return out, nil
	})
}
