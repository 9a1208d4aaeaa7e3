package repository

import (
	"context"
	"time"

	"wattfeed/internal/models"
)

// RunLogRepository stores the outcome of every provider run
type RunLogRepository interface {
	Create(ctx context.Context, log *models.RunLog) error
	List(ctx context.Context, filter RunLogFilter) ([]models.RunLog, error)
	// CleanupOld deletes runs started before now minus olderThan and returns how many were removed
	CleanupOld(ctx context.Context, olderThan time.Duration) (int64, error)
}

// RunLogFilter defines the filter options for listing runs
type RunLogFilter struct {
	Providers    []string          // Filter by provider names
	Status       *models.RunStatus // Filter by outcome
	StartedAfter *time.Time        // Filter by start time
	Limit        *int              // Limit results
	Offset       *int              // Offset results
}
