// Package app wires configuration, storage, collectors and the export
// into a provider manager shared by the API server and the ingest job
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"wattfeed/internal/aliases"
	"wattfeed/internal/collector/bafu"
	"wattfeed/internal/collector/ekz"
	"wattfeed/internal/collector/entsoe"
	"wattfeed/internal/collector/openmeteo"
	"wattfeed/internal/config"
	"wattfeed/internal/database"
	"wattfeed/internal/export"
	"wattfeed/internal/fetch"
	"wattfeed/internal/logger"
	"wattfeed/internal/models"
	"wattfeed/internal/provider"
	"wattfeed/internal/repository"
	"wattfeed/internal/repository/postgres"
)

// CollectorNames lists the feeds run by the ETL job, in registration order
var CollectorNames = []string{entsoe.Name, openmeteo.Name, ekz.Name, bafu.Name}

// Stores are the repositories providers and the API depend on
type Stores struct {
	Prices   repository.PriceRepository
	Weather  repository.WeatherRepository
	Tariffs  repository.TariffRepository
	Hydro    repository.HydroRepository
	Features repository.FeatureRepository
	Status   repository.StatusRepository
	Runs     repository.RunLogRepository
}

// NewStores builds the postgres repositories
func NewStores(pool *pgxpool.Pool, view string) Stores {
	return Stores{
		Prices:   postgres.NewPriceRepository(pool),
		Weather:  postgres.NewWeatherRepository(pool),
		Tariffs:  postgres.NewTariffRepository(pool),
		Hydro:    postgres.NewHydroRepository(pool),
		Features: postgres.NewFeatureRepository(pool, view),
		Status:   postgres.NewStatusRepository(pool),
		Runs:     postgres.NewRunLogRepository(pool),
	}
}

// App holds the long-lived services of a process
type App struct {
	Config  *config.Config
	Pool    *pgxpool.Pool
	Stores  Stores
	Manager *provider.Manager
	// Skipped names providers that could not be built, with the reason
	Skipped map[string]error
}

// New migrates the database, opens the pool and registers every provider
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := database.SetupDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	stores := NewStores(pool, cfg.Export.View)
	manager, skipped, err := NewManager(ctx, cfg, stores)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &App{
		Config:  cfg,
		Pool:    pool,
		Stores:  stores,
		Manager: manager,
		Skipped: skipped,
	}, nil
}

// Close releases the pool
func (a *App) Close() {
	a.Pool.Close()
}

// PruneRuns deletes run log entries older than the configured retention
func (a *App) PruneRuns(ctx context.Context) error {
	removed, err := a.Stores.Runs.CleanupOld(ctx, a.Config.Scheduler.RunLogRetention)
	if err != nil {
		return err
	}
	logger.GetLogger().WithComponent("app").WithFields(logger.Fields{
		"removed":   removed,
		"retention": a.Config.Scheduler.RunLogRetention.String(),
	}).Info("Pruned run log")
	return nil
}

// NewManager registers the four collectors on the ETL schedule and the
// export on the export schedule. A collector whose configuration is
// incomplete is skipped and reported rather than failing the process.
func NewManager(ctx context.Context, cfg *config.Config, stores Stores) (*provider.Manager, map[string]error, error) {
	log := logger.GetLogger().WithComponent("app")

	set, err := aliases.Load(cfg.FieldAliasesFile)
	if err != nil {
		return nil, nil, err
	}

	client := fetch.NewClient(fetch.Options{
		Timeout:     cfg.HTTP.Timeout,
		MaxAttempts: cfg.HTTP.MaxAttempts,
		Limiter:     fetch.NewLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst),
	})

	etl := provider.Config{Schedule: cfg.Scheduler.ETLSchedule, Enabled: true}
	manager := provider.NewManager()
	if stores.Runs != nil {
		manager.SetRecorder(stores.Runs)
	}
	skipped := make(map[string]error)

	src := cfg.Sources
	prices, err := entsoe.New(entsoe.Config{
		Token:  src.Entsoe.Token,
		URL:    src.Entsoe.URL,
		Domain: src.Entsoe.Domain,
	}, client)
	if err != nil {
		log.WithFields(logger.Fields{"provider": entsoe.Name}).WithError(err).Warn("Provider not registered")
		skipped[entsoe.Name] = err
	} else {
		manager.RegisterProvider(provider.NewCollectorProvider[models.PriceRecord](etl, prices, stores.Prices))
	}

	manager.RegisterProvider(provider.NewCollectorProvider[models.WeatherRecord](etl, openmeteo.New(openmeteo.Config{
		URL:          src.OpenMeteo.URL,
		Latitude:     src.OpenMeteo.Latitude,
		Longitude:    src.OpenMeteo.Longitude,
		ForecastDays: src.OpenMeteo.ForecastDays,
	}, client), stores.Weather))

	manager.RegisterProvider(provider.NewCollectorProvider[models.TariffRecord](etl, ekz.New(ekz.Config{
		URL:        src.EKZ.URL,
		TariffType: src.EKZ.TariffType,
		Date:       src.EKZ.Date,
		Aliases:    set.Tariff,
	}, client), stores.Tariffs))

	manager.RegisterProvider(provider.NewCollectorProvider[models.HydroRecord](etl, bafu.New(bafu.Config{
		URL:       src.BAFU.URL,
		StationID: src.BAFU.StationID,
		DaysBack:  src.BAFU.DaysBack,
		App:       src.BAFU.App,
		Aliases:   set.Hydro,
	}, client), stores.Hydro))

	pipeline, err := NewPipeline(ctx, cfg.Export, stores.Features)
	if err != nil {
		return nil, nil, err
	}
	manager.RegisterProvider(provider.NewExportProvider(
		provider.Config{Schedule: cfg.Scheduler.ExportSchedule, Enabled: true},
		pipeline,
	))

	return manager, skipped, nil
}

// NewPipeline builds the export, mirroring to S3 when enabled
func NewPipeline(ctx context.Context, cfg config.ExportConfig, source export.Source) (*export.Pipeline, error) {
	opts := export.Options{
		Dir:       cfg.Dir,
		TestRatio: cfg.TestRatio,
		DateStamp: cfg.DateStamp,
	}
	if cfg.S3.Enabled {
		uploader, err := export.NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 uploader: %w", err)
		}
		opts.Uploader = uploader
	}
	return export.NewPipeline(source, opts), nil
}
