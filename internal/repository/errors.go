package repository

import "errors"

var (
	// ErrPersistence is returned when a write cannot be committed; the batch is rolled back
	ErrPersistence = errors.New("persistence error")
	// ErrUnknownTable is returned for a table outside the explorer whitelist
	ErrUnknownTable = errors.New("unknown table")
)
