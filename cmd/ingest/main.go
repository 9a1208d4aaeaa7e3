// Package main runs one unit of work and exits, for use from cron or an
// external orchestrator:
//
//	ingest -job entsoe|openmeteo|ekz|bafu|export|etl
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"

	"wattfeed/internal/app"
	"wattfeed/internal/config"
	"wattfeed/internal/logger"
	"wattfeed/internal/models"
	"wattfeed/internal/provider"
	"wattfeed/internal/validation"
)

const jobETL = "etl"

func main() {
	envFile := flag.String("env", ".env", "Path to env file")
	job := flag.String("job", jobETL, "entsoe, openmeteo, ekz, bafu, export or etl")
	flag.Parse()

	if err := run(*envFile, *job); err != nil {
		fmt.Fprintf(os.Stderr, "ingest %s: %v\n", *job, err)
		os.Exit(1)
	}
}

func run(envFile, job string) error {
	log := logger.GetLogger()
	if err := godotenv.Load(envFile); err != nil && envFile == ".env" {
		log.WithError(err).Warn("No env file loaded")
	}

	names, err := jobProviders(job)
	if err != nil {
		return err
	}

	validation.Initialize()
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		return err
	}
	if err := log.Configure(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.MaxAge); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// Skipped providers fail the job, the others still run
	var skipped []error
	runnable := make([]string, 0, len(names))
	for _, name := range names {
		if reason, ok := a.Skipped[name]; ok {
			skipped = append(skipped, fmt.Errorf("%s: %w", name, reason))
			continue
		}
		runnable = append(runnable, name)
	}
	names = runnable

	var reports []models.RunReport
	switch {
	case len(names) == 0:
	case len(names) == 1:
		var report models.RunReport
		report, err = a.Manager.RunProvider(ctx, names[0])
		reports = append(reports, report)
	default:
		reports, err = a.Manager.RunAll(ctx, names)
	}

	for _, r := range reports {
		if r.Name == "" {
			continue
		}
		fmt.Printf("%s fetched=%d inserted=%d duration=%s\n", r.Name, r.Fetched, r.Inserted, r.Duration)
		keys := make([]string, 0, len(r.Artifacts))
		for k := range r.Artifacts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s %s\n", k, r.Artifacts[k])
		}
	}
	return errors.Join(append(skipped, err)...)
}

// jobProviders maps a job name to the providers it runs
func jobProviders(job string) ([]string, error) {
	if job == jobETL {
		return app.CollectorNames, nil
	}
	if job == provider.ExportName {
		return []string{provider.ExportName}, nil
	}
	for _, name := range app.CollectorNames {
		if name == job {
			return []string{name}, nil
		}
	}
	return nil, errors.New("unknown job, expected entsoe, openmeteo, ekz, bafu, export or etl")
}
