// Package main provides the entry point for the wattfeed admin API server
// and the in-process scheduler
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"wattfeed/internal/api/routes"
	"wattfeed/internal/api/server"
	"wattfeed/internal/app"
	"wattfeed/internal/config"
	"wattfeed/internal/logger"
	"wattfeed/internal/validation"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	flag.Parse()

	log := logger.GetLogger()

	// Load environment file
	if err := godotenv.Load(*envFile); err != nil && *envFile == ".env" {
		log.WithError(err).Warn("No env file loaded")
	}

	// Initialize validators
	validation.Initialize()

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if err := log.Configure(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.MaxAge); err != nil {
		log.WithError(err).Fatal("Failed to configure logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize")
	}
	defer a.Close()

	if err := a.PruneRuns(ctx); err != nil {
		log.WithError(err).Warn("Failed to prune run log")
	}

	if cfg.Scheduler.Enabled {
		go func() {
			if err := a.Manager.StartScheduler(ctx); err != nil {
				log.WithError(err).Error("Scheduler stopped")
				stop()
			}
		}()
	}

	srv := server.New(cfg, routes.Dependencies{
		Status:   a.Stores.Status,
		Features: a.Stores.Features,
		Runs:     a.Stores.Runs,
		Manager:  a.Manager,
	})
	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Error("Server failed")
		a.Close()
		os.Exit(1)
	}

	log.Info("Server exiting")
}
