// Package integration provides utilities for postgres integration testing
package integration

import (
	"context"
	"testing"
	"time"

	"wattfeed/internal/models"
	"wattfeed/internal/testutil"

	"github.com/stretchr/testify/require"
)

// TestContext wraps testutil.TestContext to provide postgres-specific test utilities
type TestContext struct {
	*testutil.TestContext
}

// NewTestContext creates a new test context for postgres integration tests
func NewTestContext(t *testing.T) *TestContext {
	return &TestContext{TestContext: testutil.NewTestContext(t)}
}

// ExecuteSQL executes a raw SQL query for testing
func (tc *TestContext) ExecuteSQL(query string, args ...interface{}) {
	tc.T.Helper()
	_, err := tc.Pool.Exec(context.Background(), query, args...)
	require.NoError(tc.T, err)
}

// CountRows returns the number of rows in table
func (tc *TestContext) CountRows(table string) int64 {
	tc.T.Helper()
	var n int64
	err := tc.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n)
	require.NoError(tc.T, err)
	return n
}

// SeedHourlyPrices inserts n consecutive hourly prices starting at start
func (tc *TestContext) SeedHourlyPrices(start time.Time, n int) []models.PriceRecord {
	tc.T.Helper()
	records := make([]models.PriceRecord, n)
	for i := range records {
		records[i] = models.PriceRecord{
			Time:        start.Add(time.Duration(i) * time.Hour),
			PriceEURMWh: 80 + float64(i%24),
			Currency:    "EUR",
			Domain:      "10YCH-SWISSGRIDZ",
		}
	}
	inserted, err := tc.PriceRepo.Upsert(context.Background(), records)
	require.NoError(tc.T, err)
	require.Equal(tc.T, int64(n), inserted)
	return records
}
