package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/opencursor/editorhost/core/config"
	"github.com/opencursor/editorhost/core/session"
	"github.com/opencursor/editorhost/core/session/jsonstore"
	"github.com/opencursor/editorhost/core/session/pgstore"
	"github.com/opencursor/editorhost/core/session/redisstore"
	"github.com/opencursor/editorhost/internal/apppaths"
	"github.com/opencursor/editorhost/internal/pairing"
	pg "github.com/opencursor/editorhost/integration/database/pg"
	redisdb "github.com/opencursor/editorhost/integration/database/redis"
)

// PairingData is the per-session payload stored alongside a pairing
// session: just enough to show an operator which companion device a
// token belongs to.
type PairingData struct {
	DeviceName string    `json:"deviceName"`
	PairedAt   time.Time `json:"pairedAt"`
}

// buildPairingManager selects a session.Store backend per cfg.PairingStore
// and wraps it in a session.Manager. The jsonfile backend is always
// available (no external service required); redis/postgres are opt-in.
func buildPairingManager(ctx context.Context, cfg appConfig, paths *apppaths.Paths, log *slog.Logger) (*session.Manager[PairingData], error) {
	switch cfg.PairingStore {
	case "redis":
		redisCfg := config.MustLoad[redisdb.Config]()
		client, err := redisdb.Connect(ctx, *redisCfg)
		if err != nil {
			return nil, fmt.Errorf("pairing: connect redis: %w", err)
		}
		return session.New[PairingData](redisstore.New[PairingData](client)), nil

	case "postgres":
		pgCfg := config.MustLoad[pg.Config]()
		pool, err := pg.Connect(ctx, *pgCfg)
		if err != nil {
			return nil, fmt.Errorf("pairing: connect postgres: %w", err)
		}
		if err := pg.Migrate(ctx, pool, pgstore.MigrationsFS, "migrations", *pgCfg, log); err != nil {
			return nil, fmt.Errorf("pairing: migrate postgres: %w", err)
		}
		return session.New[PairingData](pgstore.New[PairingData](pool)), nil

	default:
		store, err := jsonstore.New[PairingData](filepath.Join(paths.UserRoot, "pairings.json"))
		if err != nil {
			return nil, fmt.Errorf("pairing: open pairing store: %w", err)
		}
		return session.New[PairingData](store), nil
	}
}

// runPair issues a fresh pairing session for a companion device, prints
// the ws:// pairing URL, and writes a scannable QR code PNG alongside the
// per-user app directory.
func runPair(deviceName, listenAddr string) error {
	ctx := context.Background()
	cfg := config.MustLoad[appConfig]()

	paths, err := apppaths.Resolve(cfg.AppName)
	if err != nil {
		return fmt.Errorf("pair: resolve app paths: %w", err)
	}
	if err := paths.EnsureStructure(); err != nil {
		return fmt.Errorf("pair: ensure app directories: %w", err)
	}

	log := slog.Default()
	mgr, err := buildPairingManager(ctx, *cfg, paths, log)
	if err != nil {
		return err
	}

	if deviceName == "" {
		deviceName = "companion"
	}
	_, token, err := mgr.Issue(ctx, uuid.New(), PairingData{DeviceName: deviceName, PairedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("pair: issue session: %w", err)
	}

	host, port, err := pairingHostPort(listenAddr)
	if err != nil {
		return fmt.Errorf("pair: %w", err)
	}

	url := pairing.URL(host, port, token)
	png, err := pairing.Generate(url, 0)
	if err != nil {
		return fmt.Errorf("pair: render qr code: %w", err)
	}

	qrPath := filepath.Join(paths.UserRoot, fmt.Sprintf("pairing-%s.png", uuid.New().String()[:8]))
	if err := os.WriteFile(qrPath, png, 0o644); err != nil {
		return fmt.Errorf("pair: write qr code: %w", err)
	}

	fmt.Printf("Pairing URL: %s\n", url)
	fmt.Printf("QR code:     %s\n", qrPath)
	return nil
}

// pairingHostPort resolves the host a companion device should dial. A
// wildcard bind address (":8080") can't be scanned as-is, so it falls back
// to the local hostname.
func pairingHostPort(listenAddr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid listen address %q: %w", listenAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid listen port %q: %w", portStr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		if name, err := os.Hostname(); err == nil {
			host = name
		} else {
			host = "127.0.0.1"
		}
	}
	return host, port, nil
}
