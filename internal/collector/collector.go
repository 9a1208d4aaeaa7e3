// Package collector defines the two-phase fetch/parse contract shared by all feeds
package collector

import (
	"context"
	"fmt"
	"time"

	"wattfeed/internal/models"
)

// Collector fetches one feed and parses it into canonical records.
// Parse must be usable on canned payloads without calling Fetch.
type Collector[R models.Record] interface {
	// Name returns the unique name of the feed
	Name() string
	// Fetch retrieves the raw payload
	Fetch(ctx context.Context) ([]byte, error)
	// Parse converts a raw payload into records
	Parse(raw []byte) ([]R, error)
}

// Run fetches, parses and validates. No record leaves Run without passing Validate.
func Run[R models.Record](ctx context.Context, c Collector[R]) ([]R, error) {
	raw, err := c.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch: %w", c.Name(), err)
	}

	records, err := c.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", c.Name(), err)
	}

	if err := Validate(records); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name(), err)
	}
	return records, nil
}

// Validate checks that every record carries a non-zero timestamp in UTC
func Validate[R models.Record](records []R) error {
	for i, rec := range records {
		t := rec.RecordTime()
		if t.IsZero() {
			return &ValidationError{Index: i, Reason: "missing time"}
		}
		if t.Location() != time.UTC {
			return &ValidationError{Index: i, Reason: fmt.Sprintf("time %s is not UTC (location %q)", t.Format(time.RFC3339), t.Location())}
		}
	}
	return nil
}

// Clock returns the current time; collectors expose it for tests
type Clock func() time.Time

// UTCNow is the default Clock
func UTCNow() time.Time {
	return time.Now().UTC()
}
