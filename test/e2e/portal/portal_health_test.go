package portal_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	client, cleanup := setupPortalContainer(t)
	defer cleanup()

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

func TestReadyzEndpoint(t *testing.T) {
	client, cleanup := setupPortalContainer(t)
	defer cleanup()

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Blobs)
}
