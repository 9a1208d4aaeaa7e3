package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"wattfeed/internal/models"
	"wattfeed/internal/repository"
)

// TableRuns holds the run log
const TableRuns = "ingest_runs"

type runLogRepository struct {
	repository.BaseRepository
}

// NewRunLogRepository creates a new PostgreSQL run log repository
func NewRunLogRepository(pool *pgxpool.Pool) repository.RunLogRepository {
	return &runLogRepository{
		BaseRepository: repository.NewBaseRepository(pool),
	}
}

func (r *runLogRepository) Create(ctx context.Context, log *models.RunLog) error {
	query := `
		INSERT INTO ingest_runs (
			id, provider, status, fetched, inserted,
			artifacts, error, started_at, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var artifacts any
	if len(log.Artifacts) > 0 {
		artifacts = log.Artifacts
	}

	_, err := r.Pool().Exec(ctx, query,
		log.RunID,
		log.Name,
		string(log.Status),
		log.Fetched,
		log.Inserted,
		artifacts,
		log.Error,
		log.StartedAt,
		log.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("%w: insert run %s: %w", repository.ErrPersistence, log.RunID, err)
	}
	return nil
}

func buildRunListQuery(filter repository.RunLogFilter) (string, []interface{}) {
	var conditions []string
	var params []interface{}
	paramCount := 1

	query := `
		SELECT id, provider, status, fetched, inserted,
			   COALESCE(artifacts, '{}'::jsonb), error, started_at, duration_ms
		FROM ingest_runs`

	if len(filter.Providers) > 0 {
		conditions = append(conditions, fmt.Sprintf("provider = ANY($%d)", paramCount))
		params = append(params, filter.Providers)
		paramCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", paramCount))
		params = append(params, string(*filter.Status))
		paramCount++
	}

	if filter.StartedAfter != nil {
		conditions = append(conditions, fmt.Sprintf("started_at > $%d", paramCount))
		params = append(params, *filter.StartedAfter)
		paramCount++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY started_at DESC, id"

	if filter.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", paramCount)
		params = append(params, *filter.Limit)
		paramCount++
	}
	if filter.Offset != nil {
		query += fmt.Sprintf(" OFFSET $%d", paramCount)
		params = append(params, *filter.Offset)
	}

	return query, params
}

func (r *runLogRepository) List(ctx context.Context, filter repository.RunLogFilter) ([]models.RunLog, error) {
	query, params := buildRunListQuery(filter)

	rows, err := r.Pool().Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.RunLog, 0)
	for rows.Next() {
		var (
			log        models.RunLog
			status     string
			artifacts  map[string]string
			durationMS int64
		)
		err := rows.Scan(
			&log.RunID,
			&log.Name,
			&status,
			&log.Fetched,
			&log.Inserted,
			&artifacts,
			&log.Error,
			&log.StartedAt,
			&durationMS,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		log.Status = models.RunStatus(status)
		log.Artifacts = artifacts
		log.StartedAt = log.StartedAt.UTC()
		log.Duration = time.Duration(durationMS) * time.Millisecond
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

func (r *runLogRepository) CleanupOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	tag, err := r.Pool().Exec(ctx, `DELETE FROM ingest_runs WHERE started_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup runs: %w", err)
	}
	return tag.RowsAffected(), nil
}
