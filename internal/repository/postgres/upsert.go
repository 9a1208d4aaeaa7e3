package postgres

import (
	"context"
	"fmt"

	"wattfeed/internal/logger"
	"wattfeed/internal/repository"

	"github.com/jackc/pgx/v5"
)

// batchUpsert queues one insert per record inside a single transaction and
// sums the rows actually inserted. Empty input returns 0 without touching the pool.
func batchUpsert[R any](ctx context.Context, base *repository.BaseRepository, table, query string, records []R, args func(R) []any) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var inserted int64
	err := base.Transaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, rec := range records {
			batch.Queue(query, args(rec)...)
		}

		res := tx.SendBatch(ctx, batch)
		for range records {
			tag, err := res.Exec()
			if err != nil {
				res.Close()
				return err
			}
			inserted += tag.RowsAffected()
		}
		return res.Close()
	})
	if err != nil {
		logger.GetLogger().WithComponent("repository").WithFields(logger.Fields{
			"table":   table,
			"records": len(records),
		}).WithError(err).Error("upsert rolled back")
		return 0, fmt.Errorf("%w: upsert %s: %w", repository.ErrPersistence, table, err)
	}

	logger.GetLogger().WithComponent("repository").WithFields(logger.Fields{
		"table":    table,
		"records":  len(records),
		"inserted": inserted,
	}).Debug("upsert committed")
	return inserted, nil
}
