package postgres

import (
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/tnp/internal/portal/store/sqlstore"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Store is the postgres-backed store.Store.
type Store struct {
	*sqlstore.Store
}

// Dialect is the postgres flavour of the shared SQL.
var Dialect = sqlstore.Dialect{
	Name:              "postgres",
	Numbered:          true,
	IsUniqueViolation: isUniqueViolation,
}

// NewStore opens dsn (a postgres:// URL or key=value string) through the
// pgx stdlib adapter.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Store: sqlstore.New(db, Dialect, applyMigrations)}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
