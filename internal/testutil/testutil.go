// Package testutil provides utilities for testing
package testutil

import (
	"os"
	"testing"

	"wattfeed/internal/config"
	"wattfeed/internal/repository"
	"wattfeed/internal/repository/postgres"
	"wattfeed/internal/testutil/db"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IntegrationEnv enables tests that need a live PostgreSQL
const IntegrationEnv = "WATTFEED_INTEGRATION_TESTS"

// RequireIntegration skips the test unless integration tests are enabled
func RequireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv(IntegrationEnv) != "1" {
		t.Skipf("set %s=1 to run database integration tests", IntegrationEnv)
	}
}

// LoadTestConfig loads the test configuration
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return db.LoadTestConfig(t)
}

// TestContext holds common test dependencies
type TestContext struct {
	T           *testing.T
	Pool        *pgxpool.Pool
	Config      *config.Config
	PriceRepo   repository.PriceRepository
	WeatherRepo repository.WeatherRepository
	TariffRepo  repository.TariffRepository
	HydroRepo   repository.HydroRepository
	FeatureRepo repository.FeatureRepository
	StatusRepo  repository.StatusRepository
	RunLogRepo  repository.RunLogRepository
}

// NewTestContext creates a new test context with all dependencies
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()
	RequireIntegration(t)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Load test config
	cfg := LoadTestConfig(t)

	// Setup test database
	pool := db.SetupTestPool(t, &cfg.Database)

	tc := &TestContext{
		T:           t,
		Pool:        pool,
		Config:      cfg,
		PriceRepo:   postgres.NewPriceRepository(pool),
		WeatherRepo: postgres.NewWeatherRepository(pool),
		TariffRepo:  postgres.NewTariffRepository(pool),
		HydroRepo:   postgres.NewHydroRepository(pool),
		FeatureRepo: postgres.NewFeatureRepository(pool, cfg.Export.View),
		StatusRepo:  postgres.NewStatusRepository(pool),
		RunLogRepo:  postgres.NewRunLogRepository(pool),
	}

	// Register cleanup function
	t.Cleanup(func() {
		tc.cleanup()
	})

	return tc
}

// cleanup performs necessary cleanup after tests
func (tc *TestContext) cleanup() {
	if tc.Pool != nil {
		tc.Pool.Close()
	}
}
