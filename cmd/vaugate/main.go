package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/rahvusarhiiv/vaugate/config"
	"github.com/rahvusarhiiv/vaugate/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	// The database is only needed when local user reconciliation is on.
	var db *sql.DB
	if cfg.VAU.Mapping.Enabled {
		db, err = bootstrap.ConnectDB(cfg.Postgres, logger)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := db.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close database failed", "error", cerr)
			}
		}()

		if cfg.Postgres.RunMigrationsOnStart {
			if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
				return err
			}
		} else {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		}
	}

	redisClient, err := bootstrap.ConnectRedis(cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	authSvc, err := bootstrap.BuildAuthService(bootstrap.AuthDeps{
		VAU:         cfg.VAU,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunHTTPServer(ctx, &bootstrap.HTTPServerDeps{
		Config:      &cfg,
		Auth:        authSvc,
		DevProvider: bootstrap.BuildDevProvider(cfg.VAU, cfg.IsDev, logger),
		Logger:      logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting vaugate service",
		"addr", cfg.HTTP.Addr,
		"cipher", string(cfg.VAU.CipherVersion),
		"user_sync", cfg.VAU.Mapping.Enabled,
		"dev_mode", cfg.IsDev)
}
