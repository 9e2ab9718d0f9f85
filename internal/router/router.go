package router

import (
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
	"github.com/pageza/alchemorsel-recipes/backend/internal/api"
	"github.com/pageza/alchemorsel-recipes/backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the pieces the HTTP surface is assembled from
type Dependencies struct {
	Schema         *graphql.Schema
	Health         *api.HealthHandler
	Limiter        api.RecipeLimiter // nil when rate limiting is disabled
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	Logger         *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.ErrorHandler(deps.Logger))
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.ClientContext())

	router.GET("/health", deps.Health.HealthCheck)
	router.POST("/graphql", api.GraphQLHandler(deps.Schema))

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	if deps.Limiter != nil {
		rateLimits := router.Group("/rate-limits")
		rateLimits.GET("/recipe-creation", api.RateLimitStatus(deps.Limiter))
	}

	return router
}
