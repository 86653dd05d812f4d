// Command edithostd is the scriptable text-editor host process: it wires
// together the Command Router, Event Bus, Module Loader/Script Host, and
// Binding Surface, plus every supplemented editor feature, into a single
// long-running server a companion UI or a CLI driver talks to over
// HTTP/WebSocket.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dop251/goja"

	"github.com/opencursor/editorhost/core/binding"
	"github.com/opencursor/editorhost/core/command"
	"github.com/opencursor/editorhost/core/config"
	"github.com/opencursor/editorhost/core/event"
	"github.com/opencursor/editorhost/core/i18n"
	"github.com/opencursor/editorhost/core/logger"
	"github.com/opencursor/editorhost/core/module"
	"github.com/opencursor/editorhost/core/process"
	"github.com/opencursor/editorhost/core/scripthost"
	coreserver "github.com/opencursor/editorhost/core/server"
	"github.com/opencursor/editorhost/core/watcher"
	"github.com/opencursor/editorhost/core/worker"
	"github.com/opencursor/editorhost/internal/apppaths"
	"github.com/opencursor/editorhost/internal/backup"
	"github.com/opencursor/editorhost/internal/bridge"
	"github.com/opencursor/editorhost/internal/editor/autosave"
	"github.com/opencursor/editorhost/internal/editor/editorctx"
	"github.com/opencursor/editorhost/internal/editor/extmark"
	"github.com/opencursor/editorhost/internal/editor/fold"
	"github.com/opencursor/editorhost/internal/editor/help"
	"github.com/opencursor/editorhost/internal/editor/indent"
	"github.com/opencursor/editorhost/internal/editor/keymap"
	"github.com/opencursor/editorhost/internal/editor/mark"
	"github.com/opencursor/editorhost/internal/editor/plugin"
	"github.com/opencursor/editorhost/internal/editor/register"
	editorsession "github.com/opencursor/editorhost/internal/editor/session"
	"github.com/opencursor/editorhost/internal/editor/window"
	"github.com/opencursor/editorhost/internal/notify"
	"github.com/opencursor/editorhost/internal/server"
	"github.com/opencursor/editorhost/internal/status"
	"github.com/opencursor/editorhost/internal/tlsprovision"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "pair" {
		deviceName, listenAddr := parsePairArgs(args[1:])
		if err := runPair(deviceName, listenAddr); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := runServe(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parsePairArgs(args []string) (deviceName, listenAddr string) {
	listenAddr = ":8080"
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		listenAddr = addr
	}
	if len(args) > 0 {
		deviceName = args[0]
	}
	return deviceName, listenAddr
}

func runServe() error {
	appCfg := config.MustLoad[appConfig]()
	srvCfg := config.MustLoad[server.Config]()
	notifyCfg := config.MustLoad[notify.Config]()
	backupCfg := config.MustLoad[backup.Config]()

	log := buildLogger(*appCfg)
	logger.SetAsDefault(log)

	notifier := notify.New(*notifyCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap(ctx, *appCfg, *srvCfg, *backupCfg, log); err != nil {
		_ = notifier.NotifyFatal(context.Background(), "edithostd", err)
		log.Error("fatal startup error", logger.Error(err))
		return err
	}
	return nil
}

// bootstrap wires every subsystem and blocks until ctx is canceled. Split
// out from runServe so a fatal error from anywhere in setup still reaches
// the single notify.NotifyFatal call site.
func bootstrap(ctx context.Context, appCfg appConfig, srvCfg server.Config, backupCfg backup.Config, log *slog.Logger) error {
	paths, err := apppaths.Resolve(appCfg.AppName)
	if err != nil {
		return fmt.Errorf("resolve app paths: %w", err)
	}
	if err := paths.EnsureStructure(); err != nil {
		return fmt.Errorf("ensure app directories: %w", err)
	}

	i18nStore, err := i18n.LoadDir(paths.LocalesDir(), appCfg.DefaultLang)
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}

	bus := event.New(event.WithLogger(log))
	router := command.New(command.WithLogger(log), command.WithLocalizer(i18nStore, appCfg.DefaultLang))
	loader := module.NewLoader(paths.AppRoot, log)
	host := scripthost.New(paths.AppRoot, scripthost.WithLogger(log))
	go host.Run()
	defer host.Stop()

	workers := worker.NewPool(worker.WithLogger(log))
	procs := process.NewManager(bus, process.WithLogger(log))

	fsWatcher := watcher.New(log)
	fsWatcher.SetInterval(appCfg.WatchInterval)
	fsWatcher.Watch(appCfg.WorkspaceDir)
	defer fsWatcher.Stop()

	if err := bridge.WireAll(bus, fsWatcher, workers); err != nil {
		return fmt.Errorf("wire event bridges: %w", err)
	}
	go pollWorkerMessages(ctx, workers)

	keymaps, err := keymap.LoadDir(paths.KeymapsDir())
	if err != nil {
		return fmt.Errorf("load keymaps: %w", err)
	}
	helpSystem, err := help.LoadDir(paths.HelpDir())
	if err != nil {
		return fmt.Errorf("load help topics: %w", err)
	}

	sessionMgr := editorsession.New(editorsession.NewFileStore(paths.UserRoot))

	registry := binding.NewRegistry()
	editorctx.RegisterNativeBindings(registry)

	editorCtx := &editorctx.Context{
		Router:   router,
		Bus:      bus,
		Loader:   loader,
		Host:     host,
		Workers:  workers,
		Procs:    procs,
		Watcher:  fsWatcher,
		Bindings: registry,
		I18n:     i18nStore,
		Logger:   log,

		Marks:     mark.New(bus),
		Folds:     fold.New(bus),
		Extmarks:  extmark.New(),
		Windows:   window.New(""),
		Registers: register.New(),
		Keymaps:   keymaps,
		Help:      helpSystem,
		Indent:    indent.New(),
		Session:   sessionMgr,
		Plugins:   plugin.New(loader, host),
	}

	// autosave needs the router to exist before it can ask script land for
	// open documents, so it's built and started after the rest of the
	// context is assembled.
	autosaveMgr := autosave.New(paths.AutosaveDir(), documentSourceFromRouter(router), log)
	editorCtx.Autosave = autosaveMgr
	autosaveMgr.Start()
	defer autosaveMgr.Stop()

	editorCtx.RegisterFeatureCommands()
	registerWorkerCommands(router, workers)
	registerProcessCommands(router, procs)

	host.Post(func(rt *goja.Runtime) {
		editorObj := rt.NewObject()
		if err := registry.ApplyAll(rt, editorObj, editorCtx); err != nil {
			log.Error("failed to install script bindings", logger.Error(err))
			return
		}
		_ = rt.Set("editor", editorObj)
	})

	if err := editorCtx.Plugins.Discover(paths.PluginsDir()); err != nil {
		log.Error("plugin discovery failed", logger.Error(err))
	} else if loaded, err := editorCtx.Plugins.LoadAll(); err != nil {
		log.Error("plugin load failed", logger.Error(err))
	} else {
		log.Info("plugins loaded", slog.Int("count", loaded))
	}

	pairingMgr, err := buildPairingManager(ctx, appCfg, paths, log)
	if err != nil {
		return fmt.Errorf("build pairing manager: %w", err)
	}
	srvCfg.Authenticator = func(token string) bool {
		_, authErr := pairingMgr.Authenticate(ctx, token)
		return authErr == nil
	}

	mirror, err := backup.New(ctx, backupCfg, log)
	if err != nil {
		return fmt.Errorf("build backup mirror: %w", err)
	}
	go func() { _ = mirror.Run(ctx, paths.SessionFile(), paths.AutosaveDir()) }()

	mux := http.NewServeMux()
	mux.Handle("/", server.NewHandler(srvCfg, router, bus, i18nStore, log))
	if appCfg.StatusEnabled {
		mux.Handle("/status", status.Handler(statusSnapshot(router, workers, appCfg)))
	}

	var opts []coreserver.Option
	opts = append(opts, coreserver.WithLogger(log), coreserver.WithShutdownTimeout(srvCfg.ShutdownTimeout))
	if appCfg.TLSDomain != "" {
		provisioner, err := tlsprovision.New([]string{appCfg.TLSDomain}, appCfg.TLSEmail, paths.AppRoot)
		if err != nil {
			return fmt.Errorf("build tls provisioner: %w", err)
		}
		tlsCfg, err := provisioner.LoadTLSConfig(ctx)
		if err != nil {
			return fmt.Errorf("obtain tls certificate: %w", err)
		}
		opts = append(opts, coreserver.WithTLS(tlsCfg))
	}

	srv := coreserver.New(srvCfg.ListenAddr, opts...)
	run := srv.Run(ctx, mux)
	return run()
}

func statusSnapshot(router *command.Router, workers *worker.Pool, appCfg appConfig) status.Collector {
	start := time.Now()
	return func() status.Snapshot {
		all := router.ListAll()
		commandCount, queryCount := 0, 0
		if data, ok := all.Data.(map[string]any); ok {
			if n, ok := data["commandCount"].(int); ok {
				commandCount = n
			}
			if n, ok := data["queryCount"].(int); ok {
				queryCount = n
			}
		}
		return status.Snapshot{
			CommandCount:  commandCount,
			QueryCount:    queryCount,
			ActiveWorkers: workers.ActiveCount(),
			WatchedDir:    appCfg.WorkspaceDir,
			Uptime:        time.Since(start),
		}
	}
}

func buildLogger(cfg appConfig) *slog.Logger {
	switch cfg.Environment {
	case "production":
		return logger.New(logger.WithProduction(cfg.AppName))
	case "staging":
		return logger.New(logger.WithStaging(cfg.AppName))
	default:
		return logger.New(logger.WithDevelopment(cfg.AppName))
	}
}

// workerMessagePollInterval is how often pollWorkerMessages drains the
// Worker Pool's outbound queue.
const workerMessagePollInterval = 50 * time.Millisecond

// pollWorkerMessages drains the Worker Pool's outbound queue on a fixed
// interval for the life of ctx. This is the only call site for
// ProcessPendingMessages in the running server; without it, every
// post_to_main a worker sends is queued and never delivered to the bridge's
// worker.message bus listener.
func pollWorkerMessages(ctx context.Context, workers *worker.Pool) {
	ticker := time.NewTicker(workerMessagePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			workers.ProcessPendingMessages()
		}
	}
}
