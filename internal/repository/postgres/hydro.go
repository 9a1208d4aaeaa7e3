package postgres

import (
	"context"

	"wattfeed/internal/models"
	"wattfeed/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

const insertHydroSQL = `
	INSERT INTO bafu_hydro (time, station_id, discharge_m3s, level_masl)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (time, station_id) DO NOTHING`

type hydroRepository struct {
	repository.BaseRepository
}

// NewHydroRepository creates a new PostgreSQL hydrology repository
func NewHydroRepository(pool *pgxpool.Pool) repository.HydroRepository {
	return &hydroRepository{
		BaseRepository: repository.NewBaseRepository(pool),
	}
}

func (r *hydroRepository) Upsert(ctx context.Context, records []models.HydroRecord) (int64, error) {
	return batchUpsert(ctx, &r.BaseRepository, TableHydro, insertHydroSQL, records, func(h models.HydroRecord) []any {
		return []any{h.Time, h.StationID, h.DischargeM3s, h.LevelMASL}
	})
}
