// Package bridge wires the native subsystems that don't own a bus
// reference at construction time (the File Watcher and the Worker Pool)
// onto the shared Event Bus, so scripts can subscribe to their activity
// the same way they subscribe to process events.
package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/opencursor/editorhost/core/event"
	"github.com/opencursor/editorhost/core/watcher"
	"github.com/opencursor/editorhost/core/worker"
)

// fileEventName maps a watcher.EventKind to the bus event name emitted
// for it.
func fileEventName(kind watcher.EventKind) string {
	switch kind {
	case watcher.Created:
		return "file.created"
	case watcher.Modified:
		return "file.modified"
	case watcher.Deleted:
		return "file.deleted"
	default:
		return "file.unknown"
	}
}

// WireWatcher registers a callback on w that republishes every detected
// change as a file.* bus event carrying {"path": ..., "kind": ...}.
func WireWatcher(w *watcher.Watcher, bus *event.Bus) {
	if w == nil || bus == nil {
		return
	}
	w.OnEvent(func(ev watcher.Event) {
		payload, err := json.Marshal(map[string]string{
			"path": ev.Path,
			"kind": string(ev.Kind),
		})
		if err != nil {
			return
		}
		bus.Emit(fileEventName(ev.Kind), payload)
	})
}

// WireWorkerPool installs a MessageCallback on pool that republishes every
// worker-to-main message as a worker.message bus event carrying
// {"id": ..., "message": ...}.
func WireWorkerPool(pool *worker.Pool, bus *event.Bus) {
	if pool == nil || bus == nil {
		return
	}
	pool.SetMessageCallback(func(workerID, message string) {
		payload, err := json.Marshal(map[string]string{
			"id":      workerID,
			"message": message,
		})
		if err != nil {
			return
		}
		bus.Emit("worker.message", payload)
	})
}

// errNilSubsystem is returned by WireAll when a required subsystem
// reference is missing, surfacing a wiring bug loudly at startup rather
// than silently no-op'ing.
var errNilSubsystem = fmt.Errorf("bridge: bus is required")

// WireAll wires every bridgeable subsystem passed (nil entries are
// skipped) onto bus. Call once during startup, after every subsystem has
// been constructed and before the script host begins dispatching.
func WireAll(bus *event.Bus, w *watcher.Watcher, pool *worker.Pool) error {
	if bus == nil {
		return errNilSubsystem
	}
	WireWatcher(w, bus)
	WireWorkerPool(pool, bus)
	return nil
}
