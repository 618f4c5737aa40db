package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/tnp/internal/portal/store"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries runs dialect-rebound statements against a DBTX.
type Queries struct {
	db DBTX
	d  Dialect
}

func newQueries(db DBTX, d Dialect) *Queries {
	return &Queries{db: db, d: d}
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := q.db.ExecContext(ctx, q.d.Rebind(query), args...)
	return res, q.mapErr(err)
}

func (q *Queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.d.Rebind(query), args...)
}

// execOne is exec for statements that must touch exactly one row.
func (q *Queries) execOne(ctx context.Context, query string, args ...any) error {
	res, err := q.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (q *Queries) mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	case q.d.IsUniqueViolation != nil && q.d.IsUniqueViolation(err):
		return errors.Join(store.ErrAlreadyExists, err)
	default:
		return err
	}
}
