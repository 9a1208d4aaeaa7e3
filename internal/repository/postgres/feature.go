package postgres

import (
	"context"
	"fmt"
	"time"

	"wattfeed/internal/models"
	"wattfeed/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type featureRepository struct {
	repository.BaseRepository
	view string
}

// NewFeatureRepository creates a repository reading the given feature view
func NewFeatureRepository(pool *pgxpool.Pool, view string) repository.FeatureRepository {
	if view == "" {
		view = ViewFeatures
	}
	return &featureRepository{
		BaseRepository: repository.NewBaseRepository(pool),
		view:           view,
	}
}

// Query reads every row of the view in ascending time order
func (r *featureRepository) Query(ctx context.Context) ([]models.FeatureRow, []string, error) {
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY time", quoteQualified(r.view))

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", r.view, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	timeIdx := -1
	for i, fd := range fields {
		columns[i] = fd.Name
		if fd.Name == "time" {
			timeIdx = i
		}
	}
	if timeIdx < 0 {
		return nil, nil, fmt.Errorf("view %s has no time column", r.view)
	}

	var result []models.FeatureRow
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, fmt.Errorf("read %s row: %w", r.view, err)
		}

		ts, ok := values[timeIdx].(time.Time)
		if !ok {
			return nil, nil, fmt.Errorf("view %s: time column decoded as %T", r.view, values[timeIdx])
		}
		row := models.FeatureRow{
			Time:   ts.UTC(),
			Values: make(map[string]*float64, len(columns)-1),
		}
		for i, v := range values {
			if i == timeIdx {
				continue
			}
			row.Values[columns[i]] = toFloat64(v)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate %s: %w", r.view, err)
	}

	return result, columns, nil
}

// Status returns row count, time range and the number of rows with lag features
func (r *featureRepository) Status(ctx context.Context) (*models.FeatureStatus, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*), MIN(time), MAX(time), COUNT(*) FILTER (WHERE %s IS NOT NULL)
		FROM %s`, pq.QuoteIdentifier(featureLagCol), quoteQualified(r.view))

	var status models.FeatureStatus
	if err := r.Pool().QueryRow(ctx, query).Scan(
		&status.RowCount, &status.Oldest, &status.Newest, &status.RowsWithLags,
	); err != nil {
		return nil, fmt.Errorf("feature status: %w", err)
	}
	status.Oldest = utcPtr(status.Oldest)
	status.Newest = utcPtr(status.Newest)
	return &status, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
