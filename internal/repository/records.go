package repository

import (
	"context"

	"wattfeed/internal/models"
)

// Upserter writes records idempotently, keyed by their natural key. It
// returns the number of rows actually inserted; duplicates are ignored.
type Upserter[R models.Record] interface {
	Upsert(ctx context.Context, records []R) (int64, error)
}

// PriceRepository persists day-ahead prices, keyed by (time, domain)
type PriceRepository interface {
	Upserter[models.PriceRecord]
}

// WeatherRepository persists weather rows, keyed by (time, latitude, longitude)
type WeatherRepository interface {
	Upserter[models.WeatherRecord]
}

// TariffRepository persists tariff intervals, keyed by (time, tariff_type)
type TariffRepository interface {
	Upserter[models.TariffRecord]
}

// HydroRepository persists hydrology readings, keyed by (time, station_id)
type HydroRepository interface {
	Upserter[models.HydroRecord]
}

// FeatureRepository reads the training feature view
type FeatureRepository interface {
	// Query returns every row ordered by time ascending, with the view's column names
	Query(ctx context.Context) ([]models.FeatureRow, []string, error)
	Status(ctx context.Context) (*models.FeatureStatus, error)
}

// StatusRepository backs the admin dashboard
type StatusRepository interface {
	Ping(ctx context.Context) error
	TableStatus(ctx context.Context) (map[string]models.TableStatus, error)
	Schema(ctx context.Context) (map[string][]models.ColumnInfo, error)
	Rows(ctx context.Context, table string, limit, offset int) (*models.TableRows, error)
}
