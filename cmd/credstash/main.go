package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sqliteadapter "github.com/ericfisherdev/credstash/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/credstash/internal/adapter/driving/cli"
	"github.com/ericfisherdev/credstash/internal/config"
	"github.com/ericfisherdev/credstash/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(cli.GetExitCode(err))
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return cli.WrapExitError(cli.ExitCommandError, "load config", err)
	}

	// 2. Logger on stderr; --verbose lowers the level later.
	levelVar := new(slog.LevelVar)
	levelVar.Set(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))
	slog.SetDefault(logger)
	logger.Debug("config loaded", "data_dir", cfg.DataDir, "audit_db", cfg.AuditDBPath)

	// 3. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Take the single-instance lock.
	release, err := cli.AcquireLock(cfg.LockPath)
	if err != nil {
		return cli.WrapExitError(cli.ExitFailure, "acquire lock", err)
	}
	defer func() {
		if err := release(); err != nil {
			logger.Error("error releasing lock", "path", cfg.LockPath, "error", err)
		}
	}()

	// 5. Open the audit journal. The store stays usable without it.
	var auditLog driven.AuditLog
	if db, err := openAudit(ctx, cfg, logger); err != nil {
		logger.Warn("audit journal unavailable", "path", cfg.AuditDBPath, "error", err)
	} else {
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		auditLog = sqliteadapter.NewAuditRepo(db)
	}

	// 6. Wire the store and run the command.
	app := cli.NewApp(cfg, auditLog, cli.NewPrompter(os.Stdin, os.Stderr), logger)
	return cli.NewRootCommand(app, levelVar).ExecuteContext(ctx)
}

func openAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sqliteadapter.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.AuditDBPath), 0o700); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	db, err := sqliteadapter.NewDB(cfg.AuditDBPath)
	if err != nil {
		return nil, err
	}
	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Debug("audit schema ready", "path", cfg.AuditDBPath, "version", version)

	repo := sqliteadapter.NewAuditRepo(db)
	purged, err := repo.Purge(ctx, time.Now().Add(-cfg.AuditRetention))
	if err != nil {
		logger.Warn("audit purge failed", "error", err)
	} else if purged > 0 {
		logger.Debug("audit events purged", "count", purged)
	}
	return db, nil
}
