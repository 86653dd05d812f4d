// Package editorctx aggregates every native subsystem into the single
// EditorContext value threaded through core/binding installers as the
// editor object scripts see at editor.* in the script host.
package editorctx

import (
	"log/slog"

	"github.com/opencursor/editorhost/core/binding"
	"github.com/opencursor/editorhost/core/command"
	"github.com/opencursor/editorhost/core/event"
	"github.com/opencursor/editorhost/core/i18n"
	"github.com/opencursor/editorhost/core/module"
	"github.com/opencursor/editorhost/core/process"
	"github.com/opencursor/editorhost/core/scripthost"
	"github.com/opencursor/editorhost/core/watcher"
	"github.com/opencursor/editorhost/core/worker"
	"github.com/opencursor/editorhost/internal/editor/autosave"
	"github.com/opencursor/editorhost/internal/editor/extmark"
	"github.com/opencursor/editorhost/internal/editor/fold"
	"github.com/opencursor/editorhost/internal/editor/help"
	"github.com/opencursor/editorhost/internal/editor/indent"
	"github.com/opencursor/editorhost/internal/editor/keymap"
	"github.com/opencursor/editorhost/internal/editor/mark"
	"github.com/opencursor/editorhost/internal/editor/plugin"
	"github.com/opencursor/editorhost/internal/editor/register"
	"github.com/opencursor/editorhost/internal/editor/session"
	"github.com/opencursor/editorhost/internal/editor/window"
)

// Context is the root object handed to every binding installer. It is
// intentionally a flat bag of pointers: each subsystem owns its own
// synchronization, and Context adds none of its own.
type Context struct {
	Router   *command.Router
	Bus      *event.Bus
	Loader   *module.Loader
	Host     *scripthost.Host
	Workers  *worker.Pool
	Procs    *process.Manager
	Watcher  *watcher.Watcher
	Bindings *binding.Registry
	I18n     *i18n.I18n
	Logger   *slog.Logger

	Marks     *mark.Manager
	Folds     *fold.Manager
	Extmarks  *extmark.Manager
	Windows   *window.Manager
	Registers *register.Manager
	Keymaps   *keymap.Manager
	Help      *help.System
	Indent    *indent.Engine
	Autosave  *autosave.Manager
	Session   *session.Manager
	Plugins   *plugin.Manager
}

// RegisterFeatureCommands binds every supplemented feature manager's
// commands/queries onto the router. Called once during startup wiring.
func (c *Context) RegisterFeatureCommands() {
	if c.Marks != nil {
		c.Marks.RegisterCommands(c.Router)
	}
	if c.Folds != nil {
		c.Folds.RegisterCommands(c.Router)
	}
	if c.Extmarks != nil {
		c.Extmarks.RegisterCommands(c.Router)
	}
	if c.Windows != nil {
		c.Windows.RegisterCommands(c.Router)
	}
	if c.Registers != nil {
		c.Registers.RegisterCommands(c.Router)
	}
	if c.Keymaps != nil {
		c.Keymaps.RegisterCommands(c.Router)
	}
	if c.Help != nil {
		c.Help.RegisterCommands(c.Router)
	}
	if c.Indent != nil {
		c.Indent.RegisterCommands(c.Router)
	}
	if c.Session != nil {
		c.Session.RegisterCommands(c.Router)
	}
	if c.Plugins != nil {
		c.Plugins.RegisterCommands(c.Router)
	}
}
