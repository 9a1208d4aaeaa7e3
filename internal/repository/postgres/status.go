package postgres

import (
	"context"
	"fmt"

	"wattfeed/internal/models"
	"wattfeed/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type statusRepository struct {
	repository.BaseRepository
}

// NewStatusRepository creates a repository backing the admin dashboard
func NewStatusRepository(pool *pgxpool.Pool) repository.StatusRepository {
	return &statusRepository{
		BaseRepository: repository.NewBaseRepository(pool),
	}
}

func (r *statusRepository) Ping(ctx context.Context) error {
	return r.Pool().Ping(ctx)
}

// TableStatus returns count and time range of every relation, keyed by dashboard key
func (r *statusRepository) TableStatus(ctx context.Context) (map[string]models.TableStatus, error) {
	result := make(map[string]models.TableStatus, len(Tables))
	for key, table := range Tables {
		query := fmt.Sprintf("SELECT COUNT(*), MIN(time), MAX(time) FROM %s", pq.QuoteIdentifier(table))

		status := models.TableStatus{Table: table}
		if err := r.Pool().QueryRow(ctx, query).Scan(&status.Count, &status.Oldest, &status.Newest); err != nil {
			return nil, fmt.Errorf("status of %s: %w", table, err)
		}
		status.Oldest = utcPtr(status.Oldest)
		status.Newest = utcPtr(status.Newest)
		result[key] = status
	}
	return result, nil
}

// Schema lists the columns of every whitelisted relation
func (r *statusRepository) Schema(ctx context.Context) (map[string][]models.ColumnInfo, error) {
	names := make([]string, 0, len(Tables))
	for _, t := range Tables {
		names = append(names, t)
	}

	rows, err := r.Pool().Query(ctx, `
		SELECT table_name, column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
		ORDER BY table_name, ordinal_position`, names)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.ColumnInfo)
	for rows.Next() {
		var table, column, dataType, nullable string
		if err := rows.Scan(&table, &column, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		result[table] = append(result[table], models.ColumnInfo{
			Column:   column,
			Type:     dataType,
			Nullable: nullable == "YES",
		})
	}
	return result, rows.Err()
}

// Rows returns one page of a whitelisted relation, newest first
func (r *statusRepository) Rows(ctx context.Context, table string, limit, offset int) (*models.TableRows, error) {
	if !allowedTable(table) {
		return nil, fmt.Errorf("%w: %q", repository.ErrUnknownTable, table)
	}

	query := fmt.Sprintf("SELECT * FROM %s ORDER BY time DESC LIMIT $1 OFFSET $2", pq.QuoteIdentifier(table))
	rows, err := r.Pool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("rows of %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	page := &models.TableRows{
		Columns: columns,
		Rows:    make([]map[string]interface{}, 0, limit),
		Offset:  offset,
		Limit:   limit,
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("rows of %s: %w", table, err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, v := range values {
			row[columns[i]] = serialize(v)
		}
		page.Rows = append(page.Rows, row)
	}
	return page, rows.Err()
}
