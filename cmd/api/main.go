package main

import (
	"context"
	"fmt"
	"log"

	"github.com/pageza/alchemorsel-recipes/backend/config"
	"github.com/pageza/alchemorsel-recipes/backend/internal/api"
	"github.com/pageza/alchemorsel-recipes/backend/internal/cache"
	"github.com/pageza/alchemorsel-recipes/backend/internal/catalog"
	"github.com/pageza/alchemorsel-recipes/backend/internal/database"
	"github.com/pageza/alchemorsel-recipes/backend/internal/logger"
	"github.com/pageza/alchemorsel-recipes/backend/internal/metrics"
	"github.com/pageza/alchemorsel-recipes/backend/internal/middleware"
	"github.com/pageza/alchemorsel-recipes/backend/internal/repository"
	"github.com/pageza/alchemorsel-recipes/backend/internal/router"
	"github.com/pageza/alchemorsel-recipes/backend/internal/server"
	"github.com/pageza/alchemorsel-recipes/backend/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: !config.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(cfg, db, log); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	repo := repository.NewManager(db)
	if err := seedCatalog(ctx, cfg, repo, log); err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		log.Warn("Redis unavailable, continuing without cache and rate limiting", zap.Error(err))
		redisClient = nil
	}

	var (
		recipeCache service.RecipeCache
		limiter     *middleware.RateLimiter
	)
	if redisClient != nil {
		defer redisClient.Close()
		recipeCache = cache.NewRecipeCache(redisClient, cache.DefaultRecipeTTL)
		if cfg.RateLimitRecipesPerHour > 0 {
			limiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RateLimitRecipesPerHour)
		}
	}

	var llm service.LLMServiceInterface
	llmService, err := service.NewLLMService(cfg, log)
	if err != nil {
		if config.IsProduction() {
			return fmt.Errorf("failed to initialize language model client: %w", err)
		}
		log.Warn("Language model client disabled, createRecipe will fail", zap.Error(err))
	} else {
		llm = llmService
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	ingredients := service.NewIngredientService(repo, log)
	recipes := service.NewRecipeService(repo, llm, recipeCache, m, log)

	schema, err := api.NewSchema(api.NewResolver(ingredients, recipes, m, log))
	if err != nil {
		return err
	}

	deps := router.Dependencies{
		Schema:         schema,
		Health:         api.NewHealthHandler(db, redisClient),
		Gatherer:       registry,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         log,
	}
	if limiter != nil {
		recipes.WithLimiter(limiter)
		deps.Limiter = limiter
	}
	handler := router.SetupRouter(deps)

	srv := server.NewServer(cfg.ServerHost, cfg.ServerPort, handler, cfg.ShutdownTimeout, log)
	return srv.Start()
}

func seedCatalog(ctx context.Context, cfg *config.Config, repo *repository.Manager, log *zap.Logger) error {
	var opener catalog.ObjectOpener
	if _, _, ok := config.ParseS3URL(cfg.CatalogSource); ok {
		s3Cfg, err := config.NewS3Config(ctx, cfg.AWSRegion)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		opener = s3Cfg
	}

	entries, err := catalog.LoadSource(ctx, cfg.CatalogSource, opener)
	if err != nil {
		return fmt.Errorf("failed to load ingredient catalog: %w", err)
	}
	if _, err := catalog.SeedIfEmpty(ctx, repo, entries, log); err != nil {
		return fmt.Errorf("failed to seed ingredient catalog: %w", err)
	}
	return nil
}
