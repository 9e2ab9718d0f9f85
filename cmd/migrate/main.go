package main

import (
	"database/sql"
	"flag"
	"log"

	_ "github.com/lib/pq"
	"github.com/pageza/alchemorsel-recipes/backend/config"
	"github.com/pageza/alchemorsel-recipes/backend/internal/database"
	"github.com/pageza/alchemorsel-recipes/backend/internal/logger"
	"go.uber.org/zap"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		log.Fatalf("SQL migrations require PostgreSQL, got driver %q", cfg.DBDriver)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	m, err := database.NewMigrator(db, cfg.DBName, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize migrator", zap.Error(err))
	}
	defer m.Close()

	if *rollback {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil {
		zapLogger.Fatal("Migration failed", zap.Error(err))
	}

	version, dirty, err := m.Version()
	if err != nil {
		zapLogger.Fatal("Failed to read schema version", zap.Error(err))
	}
	zapLogger.Info("Schema is up to date", zap.Uint("version", version), zap.Bool("dirty", dirty))
}
