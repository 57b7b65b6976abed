package main

import (
	"context"
	"os"
	"strings"

	"github.com/fhuszti/media-converter-go/internal/config"
	"github.com/fhuszti/media-converter-go/internal/db"
	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/migration"
)

func main() {
	ctx := context.Background()
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.MariaDBDSN == "" {
		logger.Error(ctx, "❌  MARIADB_DSN is required to run migrations")
		os.Exit(1)
	}

	database, err := db.New(ctx, db.MariaDbConfig{
		DSN:             withMultiStatements(cfg.MariaDBDSN),
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	if err := migration.MigrateUp(ctx, database.DB); err != nil {
		logger.Errorf(ctx, "❌  Migration up failed: %v", err)
		_ = database.Close()
		os.Exit(1)
	}

	logger.Info(ctx, "✅  Migrations applied successfully")
}

func withMultiStatements(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&multiStatements=true"
	}
	return dsn + "?multiStatements=true"
}
