package models

import "time"

// FeatureRow is one row of the training feature view. Values holds every
// numeric column other than time, keyed by column name; nil means SQL NULL.
type FeatureRow struct {
	Time   time.Time
	Values map[string]*float64
}

// RecordTime returns the row timestamp
func (r FeatureRow) RecordTime() time.Time { return r.Time }

// Value returns the named column, or nil when absent or NULL
func (r FeatureRow) Value(column string) *float64 {
	if r.Values == nil {
		return nil
	}
	return r.Values[column]
}
