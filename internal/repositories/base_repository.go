package repositories

import (
	"context"
	"database/sql"

	"faildaily/internal/database"
)

// BaseRepository provides the shared database access plumbing. Query
// timing and error logging live in the database manager; this keeps the
// concrete repositories down to SQL and row scanning.
type BaseRepository struct {
	db *database.Manager
}

// NewBaseRepository creates a new base repository.
func NewBaseRepository(db *database.Manager) *BaseRepository {
	return &BaseRepository{db: db}
}

// ExecContext executes a statement.
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return r.db.ExecContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (r *BaseRepository) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query that returns a single row.
func (r *BaseRepository) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (r *BaseRepository) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, opts)
}

// countQuery runs a query expected to return a single integer.
func (r *BaseRepository) countQuery(ctx context.Context, query string, args ...interface{}) (int, error) {
	var count int
	if err := r.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
