package logger

import (
	"runtime"
	"strconv"
	"time"

	"log/slog"
)

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for a nil error, so it is safe to call unconditionally.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors", keyed by
// their original index so order survives.
func Errors(errs ...error) slog.Attr {
	attrs := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			attrs = append(attrs, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(attrs) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(attrs...)}
}

// Duration creates a generic duration attribute.
func Duration(d time.Duration) slog.Attr { return slog.Duration("duration", d) }

// Elapsed logs the duration since start under the key "elapsed".
func Elapsed(start time.Time) slog.Attr { return slog.Duration("elapsed", time.Since(start)) }

// Component names the subsystem emitting the record (e.g. "command",
// "event", "worker", "process", "watcher").
func Component(name string) slog.Attr { return slog.String("component", name) }

// Action names the operation within a component (e.g. "register",
// "dispatch", "spawn", "kill").
func Action(action string) slog.Attr { return slog.String("action", action) }

// Result records an operation's outcome ("ok", "error", "timeout").
func Result(result string) slog.Attr { return slog.String("result", result) }

// CommandName names a Command Router mutation or query.
func CommandName(name string) slog.Attr { return slog.String("command", name) }

// EventName names an Event Bus event, including the "*" wildcard.
func EventName(name string) slog.Attr { return slog.String("event", name) }

// ModuleSpecifier names an ES module specifier being resolved or compiled.
func ModuleSpecifier(spec string) slog.Attr { return slog.String("module", spec) }

// WorkerID identifies a worker pool slot or goroutine.
func WorkerID(id int) slog.Attr { return slog.Int("worker_id", id) }

// WorkerIDStr identifies a worker by its uuid-formatted id.
func WorkerIDStr(id string) slog.Attr { return slog.String("worker_id", id) }

// ProcessID identifies a managed child process by its monotonic process ID
// (not the OS pid).
func ProcessID(id uint64) slog.Attr { return slog.Uint64("process_id", id) }

// ExitCode records a process's terminal exit code.
func ExitCode(code int) slog.Attr { return slog.Int("exit_code", code) }

// Path records a filesystem path.
func Path(path string) slog.Attr { return slog.String("path", path) }

// RequestID tags a request with its correlation ID. Empty IDs are omitted.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Count is a generic named counter attribute.
func Count(key string, n int) slog.Attr { return slog.Int(key, n) }

// Stack captures the current goroutine's stack trace under the key "stack".
func Stack() slog.Attr {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	return slog.String("stack", string(buf))
}
