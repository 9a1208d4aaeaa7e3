// Package server provides the HTTP server implementation
package server

// @title           wattfeed admin API
// @version         1.0
// @description     Status, data explorer and manual run trigger of the wattfeed pipeline.
//
// @description.markdown
// All API endpoints are subject to per-IP rate limiting. When the limit is
// exceeded 429 is returned with X-RateLimit-Limit, X-RateLimit-Reset and
// Retry-After headers.
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wattfeed/internal/api/handlers"
	"wattfeed/internal/api/middleware"
	"wattfeed/internal/api/routes"
	"wattfeed/internal/config"
	"wattfeed/internal/logger"
)

// Server represents the HTTP server
type Server struct {
	cfg       *config.Config
	engine    *gin.Engine
	providers *handlers.ProviderHandler
	limiter   *middleware.RateLimiter
	log       *logger.Entry
}

// New creates a new server instance
func New(cfg *config.Config, deps routes.Dependencies) *Server {
	if deps.RateLimiter == nil {
		deps.RateLimiter = middleware.NewRateLimiter(cfg)
	}
	engine, providers := routes.SetupRoutes(cfg, deps)
	return &Server{
		cfg:       cfg,
		engine:    engine,
		providers: providers,
		limiter:   deps.RateLimiter,
		log:       logger.GetLogger().WithComponent("server"),
	}
}

// Engine exposes the router, mainly for tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully and waits for
// runs triggered over HTTP
func (s *Server) Run(ctx context.Context) error {
	port, err := strconv.Atoi(s.cfg.API.Port)
	if err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan struct{})
	defer close(stop)
	go s.limiter.Run(10*time.Minute, stop)

	errCh := make(chan error, 1)
	go func() {
		s.log.WithFields(logger.Fields{"addr": srv.Addr}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.API.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		s.providers.Wait()
		return nil
	}
}
