package models

import (
	"time"

	"github.com/google/uuid"
)

// RunReport summarizes one unit of work (a collector run or an export run)
type RunReport struct {
	RunID     uuid.UUID         `json:"run_id"`
	Name      string            `json:"name"`
	Fetched   int               `json:"fetched"`
	Inserted  int64             `json:"inserted"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
}
