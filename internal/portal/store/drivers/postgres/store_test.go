package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/store"
	"github.com/aussiebroadwan/tnp/internal/portal/store/drivers/postgres"
	"github.com/aussiebroadwan/tnp/internal/portal/store/storetest"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway postgres and returns its DSN. Tests are
// skipped when no container runtime is reachable.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "portal",
			"POSTGRES_PASSWORD": "portal",
			"POSTGRES_DB":       "portal",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://portal:portal@%s:%s/portal?sslmode=disable", host, port.Port())
}

func TestPostgresStore(t *testing.T) {
	dsn := startPostgres(t)

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := postgres.NewStore(dsn)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		require.NoError(t, s.ApplyMigrations())

		// Subtests share the database, so start each from empty tables.
		_, err = s.DB().ExecContext(context.Background(),
			`TRUNCATE student_profiles, credentials RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
		return s
	})
}
