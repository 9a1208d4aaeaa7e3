// Package provider schedules and runs collectors and the feature export as units of work
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"wattfeed/internal/logger"
	"wattfeed/internal/models"
)

// Config represents the configuration for a provider
type Config struct {
	// Schedule in cron format (e.g. "0 6 * * *" for 06:00 UTC daily)
	Schedule string `json:"schedule"`
	// Enabled determines if the provider may run
	Enabled bool `json:"enabled"`
}

// Provider is one unit of work: fetch and store a feed, or export features
type Provider interface {
	// Name returns the unique name of the provider
	Name() string
	// Run executes the work once
	Run(ctx context.Context) (models.RunReport, error)
	// GetConfig returns the provider's configuration
	GetConfig() Config
}

// BaseProvider contains common functionality for all providers
type BaseProvider struct {
	name   string
	config Config
}

// NewBaseProvider creates a new BaseProvider
func NewBaseProvider(name string, config Config) BaseProvider {
	return BaseProvider{name: name, config: config}
}

// Name returns the provider's unique identifier
func (p *BaseProvider) Name() string {
	return p.name
}

// GetConfig returns the provider's configuration
func (p *BaseProvider) GetConfig() Config {
	return p.config
}

func newReport(name string) models.RunReport {
	return models.RunReport{
		RunID:     uuid.New(),
		Name:      name,
		StartedAt: time.Now().UTC(),
	}
}

func (p *BaseProvider) finish(report *models.RunReport) {
	report.Duration = time.Since(report.StartedAt)
}

// Recorder persists the outcome of every provider run
type Recorder interface {
	Create(ctx context.Context, log *models.RunLog) error
}

// Manager handles the scheduling and execution of providers
type Manager struct {
	providers []Provider
	cron      *cron.Cron
	log       *logger.Entry
	recorder  Recorder

	mu      sync.Mutex
	running map[string]bool
}

// NewManager creates a new provider manager whose schedules are evaluated in UTC
func NewManager() *Manager {
	// Create a new cron scheduler with seconds disabled
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithParser(cron.NewParser(
			cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow,
		)),
	)

	return &Manager{
		providers: make([]Provider, 0),
		cron:      c,
		log:       logger.GetLogger().WithComponent("provider"),
		running:   make(map[string]bool),
	}
}

// RegisterProvider adds a provider to the manager
func (m *Manager) RegisterProvider(p Provider) {
	m.providers = append(m.providers, p)
}

// SetRecorder makes the manager record every run it executes
func (m *Manager) SetRecorder(r Recorder) {
	m.recorder = r
}

// GetProvider returns a provider by name
func (m *Manager) GetProvider(name string) (Provider, bool) {
	for _, p := range m.providers {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Providers returns the registered providers in registration order
func (m *Manager) Providers() []Provider {
	out := make([]Provider, len(m.providers))
	copy(out, m.providers)
	return out
}

// Info describes every registered provider
func (m *Manager) Info() []models.ProviderInfo {
	out := make([]models.ProviderInfo, 0, len(m.providers))
	for _, p := range m.providers {
		cfg := p.GetConfig()
		out = append(out, models.ProviderInfo{Name: p.Name(), Schedule: cfg.Schedule, Enabled: cfg.Enabled})
	}
	return out
}

// Lookup resolves a runnable provider, checking it exists and is enabled
func (m *Manager) Lookup(name string) (Provider, error) {
	provider, found := m.GetProvider(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	if !provider.GetConfig().Enabled {
		return nil, fmt.Errorf("%w: %s", ErrProviderDisabled, name)
	}
	return provider, nil
}

// RunFunc executes a claimed run and frees the provider's slot
type RunFunc func(ctx context.Context) (models.RunReport, error)

// TryStart claims the named provider for one run. The claim is taken
// before TryStart returns, so a second claim fails with ErrProviderBusy
// until the returned RunFunc has completed. The RunFunc must be called
// exactly once.
func (m *Manager) TryStart(name string) (RunFunc, error) {
	provider, err := m.Lookup(name)
	if err != nil {
		return nil, err
	}

	if !m.acquire(name) {
		return nil, fmt.Errorf("%w: %s", ErrProviderBusy, name)
	}

	return func(ctx context.Context) (models.RunReport, error) {
		defer m.release(name)
		return m.execute(ctx, provider)
	}, nil
}

// RunProvider executes a specific provider by name. A provider never runs
// twice at the same time.
func (m *Manager) RunProvider(ctx context.Context, name string) (models.RunReport, error) {
	run, err := m.TryStart(name)
	if err != nil {
		return models.RunReport{}, err
	}
	return run(ctx)
}

func (m *Manager) execute(ctx context.Context, provider Provider) (models.RunReport, error) {
	name := provider.Name()
	entry := m.log.WithFields(logger.Fields{"provider": name})
	entry.Info("Running provider")

	report, err := provider.Run(ctx)
	m.record(ctx, entry, name, report, err)
	if err != nil {
		entry.WithError(err).Error("Provider run failed")
		return report, err
	}

	entry.WithFields(logger.Fields{
		"run_id":   report.RunID.String(),
		"fetched":  report.Fetched,
		"inserted": report.Inserted,
		"duration": report.Duration.String(),
	}).Info("Provider run finished")
	return report, nil
}

// record stores the run outcome. The run result stands even when the
// log write fails.
func (m *Manager) record(ctx context.Context, entry *logger.Entry, name string, report models.RunReport, runErr error) {
	if m.recorder == nil {
		return
	}
	if report.RunID == uuid.Nil {
		fresh := newReport(name)
		report.RunID = fresh.RunID
		if report.StartedAt.IsZero() {
			report.StartedAt = fresh.StartedAt
		}
	}
	if report.Name == "" {
		report.Name = name
	}
	if err := m.recorder.Create(context.WithoutCancel(ctx), models.NewRunLog(report, runErr)); err != nil {
		entry.WithError(err).Warn("Failed to record provider run")
	}
}

// RunAll runs the named providers concurrently. Every provider runs to
// completion; failures are joined into one error.
func (m *Manager) RunAll(ctx context.Context, names []string) ([]models.RunReport, error) {
	reports := make([]models.RunReport, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			reports[i], errs[i] = m.RunProvider(ctx, name)
		}(i, name)
	}
	wg.Wait()

	return reports, errors.Join(errs...)
}

// Running reports whether the named provider is executing
func (m *Manager) Running(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running[name]
}

func (m *Manager) acquire(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running[name] {
		return false
	}
	m.running[name] = true
	return true
}

func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.running, name)
}

// Schedule registers every enabled provider with the cron scheduler.
// Providers sharing a schedule fire together and run concurrently.
func (m *Manager) Schedule(ctx context.Context) error {
	for _, p := range m.providers {
		config := p.GetConfig()
		if !config.Enabled {
			m.log.WithFields(logger.Fields{"provider": p.Name()}).Info("Provider is disabled, skipping scheduler")
			continue
		}

		if config.Schedule == "" {
			return fmt.Errorf("provider %s has no schedule configured", p.Name())
		}

		name := p.Name()
		_, err := m.cron.AddFunc(config.Schedule, func() {
			m.log.WithFields(logger.Fields{"provider": name}).Info("Running scheduled execution")
			// errors are logged by RunProvider
			_, _ = m.RunProvider(ctx, name)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule provider %s: %w", name, err)
		}

		m.log.WithFields(logger.Fields{"provider": name, "schedule": config.Schedule}).Info("Scheduled provider")
	}
	return nil
}

// StartScheduler schedules all enabled providers and blocks until ctx is done
func (m *Manager) StartScheduler(ctx context.Context) error {
	if err := m.Schedule(ctx); err != nil {
		return err
	}

	// Start the cron scheduler
	m.cron.Start()
	m.log.Info("Provider scheduler started")

	// Wait for context cancellation
	<-ctx.Done()
	m.log.Info("Stopping provider scheduler...")
	<-m.cron.Stop().Done()

	return nil
}

// Entries returns the number of scheduled jobs
func (m *Manager) Entries() int {
	return len(m.cron.Entries())
}
