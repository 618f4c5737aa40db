package portal_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/tnp/pkg/portalsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for portal end-to-end tests.
 * The portal runs in a container with sqlite, the memory blob store and
 * the log mail driver.
 */

const (
	testImageName = "tnp-portal-test:latest"

	adminToken = "test-admin-token-12345"
	jwtSecret  = "e2e-secret-0123456789abcdef0123"
)

// TestMain builds the Docker image once before all tests and removes it
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building portal Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up portal Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/portal/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// setupPortalContainer starts the portal and returns a client for it.
func setupPortalContainer(t *testing.T) (*portalsdk.Client, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"AUTH_JWT_SECRET":  jwtSecret,
			"AUTH_BCRYPT_COST": "4",
			"ADMIN_TOKEN":      adminToken,
			"DB_DRIVER":        "sqlite",
			"DB_DSN":           "file:/tmp/portal.db",
			"BLOB_DRIVER":      "memory",
			"MAIL_DRIVER":      "log",
			"ENV":              "test",
			"LOG_LEVEL":        "info",
			"LOG_FORMAT":       "json",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return portalsdk.NewClient(fmt.Sprintf("http://%s:%s", host, mappedPort.Port())), cleanup
}

// registerAndLogin creates a self-service account and returns its session.
func registerAndLogin(t *testing.T, client *portalsdk.Client, identifier, password string) *portalsdk.Session {
	t.Helper()

	_, err := client.Register(t.Context(), portalsdk.RegisterRequest{
		Identifier: identifier,
		Email:      identifier + "@college.example",
		Password:   password,
	})
	require.NoError(t, err)

	sess, err := client.Authenticate(t.Context(), identifier, password)
	require.NoError(t, err)
	require.False(t, sess.MustRotate())
	return sess
}

func assertHealthy(t *testing.T, health *portalsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Version)
}
