package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/pageza/alchemorsel-recipes/backend/config"
	"github.com/pageza/alchemorsel-recipes/backend/internal/catalog"
	"github.com/pageza/alchemorsel-recipes/backend/internal/database"
	"github.com/pageza/alchemorsel-recipes/backend/internal/logger"
	"github.com/pageza/alchemorsel-recipes/backend/internal/repository"
	"go.uber.org/zap"
)

func main() {
	source := flag.String("source", "", "Catalog to load: a JSON file, an s3://bucket/key URL, or empty for the built-in catalog")
	onlyEmpty := flag.Bool("if-empty", false, "Only seed when the catalog has no ingredients")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *source == "" {
		*source = cfg.CatalogSource
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var opener catalog.ObjectOpener
	if _, _, ok := config.ParseS3URL(*source); ok {
		s3Cfg, err := config.NewS3Config(ctx, cfg.AWSRegion)
		if err != nil {
			zapLogger.Fatal("Failed to initialize S3 client", zap.Error(err))
		}
		opener = s3Cfg
	}

	entries, err := catalog.LoadSource(ctx, *source, opener)
	if err != nil {
		zapLogger.Fatal("Failed to load catalog", zap.String("source", *source), zap.Error(err))
	}

	db, err := database.New(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.RunMigrations(cfg, db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repo := repository.NewManager(db)
	if *onlyEmpty {
		if _, err := catalog.SeedIfEmpty(ctx, repo, entries, zapLogger); err != nil {
			zapLogger.Fatal("Failed to seed catalog", zap.Error(err))
		}
		return
	}

	if err := catalog.Seed(ctx, repo, entries); err != nil {
		zapLogger.Fatal("Failed to seed catalog", zap.Error(err))
	}
	count, err := repo.CountIngredients(ctx)
	if err != nil {
		zapLogger.Fatal("Failed to count ingredients", zap.Error(err))
	}
	zapLogger.Info("Catalog seeded", zap.Int("entries", len(entries)), zap.Int64("total", count))
}
