package postgres

import (
	"context"

	"wattfeed/internal/models"
	"wattfeed/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

const insertWeatherSQL = `
	INSERT INTO weather_hourly
		(time, latitude, longitude, temperature_2m, wind_speed_10m, shortwave_radiation, cloud_cover)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (time, latitude, longitude) DO NOTHING`

type weatherRepository struct {
	repository.BaseRepository
}

// NewWeatherRepository creates a new PostgreSQL weather repository
func NewWeatherRepository(pool *pgxpool.Pool) repository.WeatherRepository {
	return &weatherRepository{
		BaseRepository: repository.NewBaseRepository(pool),
	}
}

func (r *weatherRepository) Upsert(ctx context.Context, records []models.WeatherRecord) (int64, error) {
	return batchUpsert(ctx, &r.BaseRepository, TableWeather, insertWeatherSQL, records, func(w models.WeatherRecord) []any {
		return []any{w.Time, w.Latitude, w.Longitude, w.Temperature2m, w.WindSpeed10m, w.ShortwaveRadiation, w.CloudCover}
	})
}
