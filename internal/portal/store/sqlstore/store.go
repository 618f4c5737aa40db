// Package sqlstore implements store.Store over database/sql. The sqlite and
// postgres drivers share it and only supply a Dialect and migrations.
package sqlstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/tnp/internal/portal/store"
)

type Store struct {
	db *sql.DB
	d  Dialect
	q  *Queries

	migrate func(*sql.DB) error
}

// New wraps db. migrate is invoked by ApplyMigrations.
func New(db *sql.DB, d Dialect, migrate func(*sql.DB) error) *Store {
	return &Store{
		db:      db,
		d:       d,
		q:       newQueries(db, d),
		migrate: migrate,
	}
}

// DB exposes the pool for driver-level concerns such as migrations.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ApplyMigrations runs the driver's embedded migrations.
func (s *Store) ApplyMigrations() error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(s.db)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.d), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Credentials() store.Credentials { return &credentialsRepo{q: s.q} }
func (s *Store) Profiles() store.Profiles       { return &profilesRepo{q: s.q} }

var _ store.Store = (*Store)(nil)
