// Package db provides database utilities for testing
package db

import (
	"context"
	"testing"

	"wattfeed/internal/config"
	"wattfeed/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TruncateSourceTables empties the four source tables and the run log
func TruncateSourceTables(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE entsoe_day_ahead_prices, weather_hourly, ekz_tariffs_raw, bafu_hydro, ingest_runs`)
	return err
}

// SetupTestPool rebuilds the schema from migrations and opens a pool against it
func SetupTestPool(t *testing.T, cfg *config.DatabaseConfig) *pgxpool.Pool {
	t.Helper()

	// Run migrations using the same setup as the main app
	err := database.ResetMigrations(*cfg)
	require.NoError(t, err, "Failed to run migrations")

	pool, err := database.NewPool(context.Background(), *cfg)
	require.NoError(t, err, "Failed to connect to test database")

	err = TruncateSourceTables(context.Background(), pool)
	require.NoError(t, err, "Failed to cleanup test database")

	return pool
}
