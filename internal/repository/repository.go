// Package repository defines the persistence contracts
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository represents the base repository interface
type Repository interface {
	// Transaction executes operations within a database transaction
	Transaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
	Pool() *pgxpool.Pool
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*BaseRepository)(nil)

// NewBaseRepository creates a new base repository
func NewBaseRepository(pool *pgxpool.Pool) BaseRepository {
	return BaseRepository{pool: pool}
}

// Pool returns the connection pool
func (r *BaseRepository) Pool() *pgxpool.Pool {
	return r.pool
}

// Transaction runs fn inside a transaction. Any error from fn rolls the
// transaction back; the connection returns to the pool on every path.
func (r *BaseRepository) Transaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}
