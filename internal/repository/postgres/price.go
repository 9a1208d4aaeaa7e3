package postgres

import (
	"context"

	"wattfeed/internal/models"
	"wattfeed/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

const insertPriceSQL = `
	INSERT INTO entsoe_day_ahead_prices (time, domain, price_eur_mwh, currency)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (time, domain) DO NOTHING`

type priceRepository struct {
	repository.BaseRepository
}

// NewPriceRepository creates a new PostgreSQL day-ahead price repository
func NewPriceRepository(pool *pgxpool.Pool) repository.PriceRepository {
	return &priceRepository{
		BaseRepository: repository.NewBaseRepository(pool),
	}
}

func (r *priceRepository) Upsert(ctx context.Context, records []models.PriceRecord) (int64, error) {
	return batchUpsert(ctx, &r.BaseRepository, TablePrices, insertPriceSQL, records, func(p models.PriceRecord) []any {
		return []any{p.Time, p.Domain, p.PriceEURMWh, p.Currency}
	})
}
