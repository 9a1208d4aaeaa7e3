package postgres

import (
	"context"

	"wattfeed/internal/models"
	"wattfeed/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

const insertTariffSQL = `
	INSERT INTO ekz_tariffs_raw (time, tariff_type, price_chf_kwh)
	VALUES ($1, $2, $3)
	ON CONFLICT (time, tariff_type) DO NOTHING`

type tariffRepository struct {
	repository.BaseRepository
}

// NewTariffRepository creates a new PostgreSQL tariff repository
func NewTariffRepository(pool *pgxpool.Pool) repository.TariffRepository {
	return &tariffRepository{
		BaseRepository: repository.NewBaseRepository(pool),
	}
}

func (r *tariffRepository) Upsert(ctx context.Context, records []models.TariffRecord) (int64, error) {
	return batchUpsert(ctx, &r.BaseRepository, TableTariffs, insertTariffSQL, records, func(t models.TariffRecord) []any {
		return []any{t.Time, t.TariffType, t.PriceCHFKWh}
	})
}
