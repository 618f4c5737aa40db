package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/aussiebroadwan/tnp/internal/portal/store/sqlstore"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store is the sqlite-backed store.Store.
type Store struct {
	*sqlstore.Store
}

// Dialect is the sqlite flavour of the shared SQL.
var Dialect = sqlstore.Dialect{
	Name:              "sqlite",
	IsUniqueViolation: isUniqueViolation,
}

// NewStore opens dsn with the modernc driver. Foreign keys are enforced on
// every pooled connection. In-memory databases are limited to a single
// connection since each connection would otherwise get its own database.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, err
	}

	if isMemory(dsn) {
		db.SetMaxOpenConns(1)
	}

	return &Store{Store: sqlstore.New(db, Dialect, applyMigrations)}, nil
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
