package models

import "time"

// TableStatus holds row count and time range of one source table
type TableStatus struct {
	Table  string     `json:"table"`
	Count  int64      `json:"count"`
	Oldest *time.Time `json:"oldest"`
	Newest *time.Time `json:"newest"`
}

// FeatureStatus holds statistics of the training feature view
type FeatureStatus struct {
	RowCount     int64      `json:"row_count"`
	Oldest       *time.Time `json:"oldest"`
	Newest       *time.Time `json:"newest"`
	RowsWithLags int64      `json:"rows_with_lags"`
}

// ColumnInfo describes a column of a source table
type ColumnInfo struct {
	Column   string `json:"column"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// TableRows is one page of rows from a source table, newest first
type TableRows struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
	Offset  int                      `json:"offset"`
	Limit   int                      `json:"limit"`
}

// ProviderInfo describes a registered provider
type ProviderInfo struct {
	Name     string `json:"name"`
	Schedule string `json:"schedule"`
	Enabled  bool   `json:"enabled"`
}
