package export

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned when the feature view has no rows
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrLeakage is returned when the target is listed as a feature
	ErrLeakage = errors.New("data leakage")
	// ErrInvalidSplit is returned for a ratio outside (0, 1) or a split leaving one side empty
	ErrInvalidSplit = errors.New("invalid split")
	// ErrUnordered is returned when rows are not strictly ascending by time
	ErrUnordered = errors.New("rows not in ascending time order")
	// ErrMissingColumn is returned when a declared column is absent from the view
	ErrMissingColumn = errors.New("missing column")
)

// LeakageError names the offending column
type LeakageError struct {
	Column string
}

func (e *LeakageError) Error() string {
	return fmt.Sprintf("data leakage: target column '%s' found in feature list", e.Column)
}

func (e *LeakageError) Unwrap() error { return ErrLeakage }

// SplitError describes a rejected split
type SplitError struct {
	Ratio float64
	Rows  int
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("invalid split: test ratio %g on %d rows", e.Ratio, e.Rows)
}

func (e *SplitError) Unwrap() error { return ErrInvalidSplit }
