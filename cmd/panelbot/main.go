package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m3rciful/panelbot/internal/bot"
	"github.com/m3rciful/panelbot/internal/buildinfo"
	"github.com/m3rciful/panelbot/internal/config"
	"github.com/m3rciful/panelbot/internal/database"
	"github.com/m3rciful/panelbot/internal/logger"
	"github.com/m3rciful/panelbot/internal/roster"
	"github.com/m3rciful/panelbot/internal/roster/pgstore"
)

const (
	configEnvVar      = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"
	migrationsDir     = "migrations"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("panelbot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv(configEnvVar)
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Dir:     cfg.Logging.Dir,
		File:    cfg.Logging.File,
		Profile: cfg.Logging.Profile,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	logger.L.Info("starting",
		slog.String("event", "startup"),
		slog.String("version", buildinfo.Version),
		slog.String("commit", buildinfo.Commit),
		slog.String("roster_backend", cfg.Roster.Backend),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open roster store: %w", err)
	}
	defer closeStore()

	startedAt := time.Now()
	app := bot.New(cfg, store)

	logger.L.Info("app ready",
		slog.String("event", "ready"),
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
	)

	err = app.Run(ctx)

	logger.L.Info("shutting down...", slog.String("event", "shutdown"))
	return err
}

// openStore builds the roster backend the config names. The returned closer
// is a no-op for backends without external resources.
func openStore(ctx context.Context, cfg *config.Config) (roster.Store, func(), error) {
	noop := func() {}

	switch cfg.Roster.Backend {
	case "memory":
		return roster.NewMemStore(), noop, nil

	case "file":
		store, err := roster.OpenFileStore(cfg.Roster.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case "postgres":
		if err := database.RunMigrations(cfg.Roster.Database, migrationsDir); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		db, err := database.Connect(ctx, cfg.Roster.Database)
		if err != nil {
			return nil, nil, err
		}
		return pgstore.New(db), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown roster backend %q", cfg.Roster.Backend)
	}
}
