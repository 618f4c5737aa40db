package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories so a Tx-scoped
// Store can hand out the same repos bound to the transaction.
type Store interface {
	Credentials() Credentials
	Profiles() Profiles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying connection pool.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Credentials interface {
	// CreateCredential inserts c and returns the assigned id. A taken
	// identifier yields ErrAlreadyExists.
	CreateCredential(ctx context.Context, c domain.Credential) (int64, error)

	GetCredentialByID(ctx context.Context, id int64) (domain.Credential, error)

	// GetCredentialByIdentifier is used during login.
	GetCredentialByIdentifier(ctx context.Context, identifier string) (domain.Credential, error)

	// UpdatePasswordHash replaces the hash, sets must_rotate and bumps
	// updated_at in a single statement.
	UpdatePasswordHash(ctx context.Context, id int64, hash string, mustRotate bool, at time.Time) error

	UpdateProfilePhotoKey(ctx context.Context, identifier, key string, at time.Time) error
}

type Profiles interface {
	// CreateProfile inserts p. One profile per identifier; a second one
	// yields ErrAlreadyExists.
	CreateProfile(ctx context.Context, p domain.Profile) (int64, error)

	GetProfileByIdentifier(ctx context.Context, identifier string) (domain.Profile, error)

	// UpdateContact rewrites the editable contact fields and bumps updated_at.
	UpdateContact(ctx context.Context, identifier string, u domain.ContactUpdate, at time.Time) error
}
