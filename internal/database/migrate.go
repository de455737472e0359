package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/m3rciful/panelbot/internal/config"
	"github.com/m3rciful/panelbot/internal/logger"
)

const migrateWaitTimeout = 30 * time.Second

// RunMigrations applies all pending up migrations from dir.
func RunMigrations(cfg config.DatabaseConfig, dir string) error {
	ctx := logger.Background()
	dsn := URL(cfg)

	if err := WaitForPostgres(dsn, migrateWaitTimeout); err != nil {
		logger.LogEvent(ctx, logger.MIG, slog.LevelError, "db_not_ready", slog.Any("err", err))
		return fmt.Errorf("database not ready: %w", err)
	}

	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		logger.LogEvent(ctx, logger.MIG, slog.LevelError, "migrate_init_failed",
			slog.String("path", dir), slog.Any("err", err))
		return fmt.Errorf("init migrations: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	fromVer, _, _ := m.Version()

	start := time.Now()
	upErr := m.Up()
	took := time.Since(start)

	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		logger.LogEvent(ctx, logger.MIG, slog.LevelError, "migrate_failed",
			slog.Any("err", upErr), slog.Duration("duration", logger.RoundMS(took)))
		return fmt.Errorf("apply migrations: %w", upErr)
	}

	toVer, _, _ := m.Version()
	logger.LogEvent(ctx, logger.MIG, slog.LevelInfo, "migrate_summary",
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Duration("duration", logger.RoundMS(took)))
	return nil
}
