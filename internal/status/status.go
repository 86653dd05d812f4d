// Package status renders a tiny human-facing dashboard showing router,
// worker pool, and file watcher activity. It is an operator convenience
// page, not a scripted feature: nothing here is reachable from script
// bindings.
package status

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/a-h/templ"
)

// Snapshot is a point-in-time view of host activity, collected by the
// caller (cmd/edithostd) from the live subsystems just before render.
type Snapshot struct {
	CommandCount   int
	QueryCount     int
	ActiveWorkers  int
	WatchedDir     string
	WatcherRunning bool
	Uptime         time.Duration
}

// Collector produces a fresh Snapshot on every request.
type Collector func() Snapshot

// Dashboard renders snap as a minimal HTML page listing the counts above.
func Dashboard(snap Snapshot) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, dashboardTemplate,
			html.EscapeString(fmt.Sprintf("%d", snap.CommandCount)),
			html.EscapeString(fmt.Sprintf("%d", snap.QueryCount)),
			html.EscapeString(fmt.Sprintf("%d", snap.ActiveWorkers)),
			html.EscapeString(snap.WatchedDir),
			html.EscapeString(fmt.Sprintf("%v", snap.WatcherRunning)),
			html.EscapeString(snap.Uptime.Round(time.Second).String()),
		)
		return err
	})
}

const dashboardTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>editorhost status</title></head>
<body>
<h1>editorhost</h1>
<ul>
<li>commands registered: %s</li>
<li>queries registered: %s</li>
<li>active workers: %s</li>
<li>watched directory: %s</li>
<li>watcher running: %s</li>
<li>uptime: %s</li>
</ul>
</body>
</html>
`

// Handler wraps Dashboard in an http.Handler, collecting a fresh Snapshot
// from collect on every request.
func Handler(collect Collector) http.Handler {
	return templ.Handler(templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Dashboard(collect()).Render(ctx, w)
	}))
}
