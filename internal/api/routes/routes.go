// Package routes handles the setup and configuration of API routes
package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "wattfeed/docs" // Import swagger docs

	"wattfeed/internal/api/handlers"
	"wattfeed/internal/api/middleware"
	"wattfeed/internal/config"
	"wattfeed/internal/logger"
	"wattfeed/internal/provider"
	"wattfeed/internal/repository"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Status   repository.StatusRepository
	Features repository.FeatureRepository
	Runs     repository.RunLogRepository
	Manager  *provider.Manager
	// RateLimiter is optional; one is created from cfg when nil
	RateLimiter *middleware.RateLimiter
}

// SetupRoutes configures all API routes and their handlers. The returned
// ProviderHandler tracks runs triggered over HTTP.
func SetupRoutes(cfg *config.Config, deps Dependencies) (*gin.Engine, *handlers.ProviderHandler) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.GetLogger()))
	r.Use(middleware.CORS(cfg.API.CORSOrigin))

	// Apply compression middleware globally
	r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))

	// Swagger documentation is served outside the rate limit
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(cfg)
	}
	r.Use(limiter.Middleware())

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.Status)
	statusHandler := handlers.NewStatusHandler(deps.Status, deps.Features)
	providerHandler := handlers.NewProviderHandler(deps.Manager)
	runsHandler := handlers.NewRunsHandler(deps.Runs)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)
		v1.GET("/db-status", statusHandler.DBStatus)
		v1.GET("/feature-status", statusHandler.FeatureStatus)

		explorer := v1.Group("/db-explorer")
		{
			explorer.GET("/schema", statusHandler.Schema)
			explorer.GET("/rows/:table", statusHandler.Rows)
		}

		providers := v1.Group("/providers")
		{
			providers.GET("", providerHandler.ListProviders)
			providers.POST("/:name/run", middleware.AdminRequired(cfg.API.AdminToken), providerHandler.RunProvider)
		}

		v1.GET("/runs", runsHandler.ListRuns)
	}

	return r, providerHandler
}
