package s3_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/blob"
	"github.com/aussiebroadwan/tnp/internal/portal/blob/drivers/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
)

// startMinIO runs a throwaway MinIO and returns a store on a fresh bucket.
func startMinIO(t *testing.T) *s3.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Cmd:          []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     minioUser,
			"MINIO_ROOT_PASSWORD": minioPassword,
		},
		WaitingFor: wait.ForHTTP("/minio/health/live").
			WithPort("9000/tcp").
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
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	store, err := s3.New(ctx, s3.Config{
		Bucket:       "portal-test",
		Region:       "us-east-1",
		AccessKey:    minioUser,
		SecretKey:    minioPassword,
		BaseEndpoint: fmt.Sprintf("http://%s:%s", host, port.Port()),
		UsePathStyle: true,
	})
	require.NoError(t, err)
	require.NoError(t, store.EnsureBucket(ctx))
	return store
}

func TestS3Store(t *testing.T) {
	store := startMinIO(t)
	ctx := context.Background()

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, store.Ping(ctx))
	})

	t.Run("ensure bucket is idempotent", func(t *testing.T) {
		require.NoError(t, store.EnsureBucket(ctx))
	})

	t.Run("put and get", func(t *testing.T) {
		body := strings.NewReader("%PDF-1.4 resume")
		require.NoError(t, store.Put(ctx, "resume/2021001_x.pdf", body, body.Size(), "application/pdf"))

		obj, err := store.Get(ctx, "resume/2021001_x.pdf")
		require.NoError(t, err)
		defer obj.Body.Close()

		data, err := io.ReadAll(obj.Body)
		require.NoError(t, err)
		require.Equal(t, "%PDF-1.4 resume", string(data))
		require.Equal(t, "application/pdf", obj.ContentType)
		require.Equal(t, int64(len(data)), obj.Size)
	})

	t.Run("non seekable body", func(t *testing.T) {
		body := io.MultiReader(strings.NewReader("part1"), strings.NewReader("part2"))
		require.NoError(t, store.Put(ctx, "ssc/2021001_y", body, -1, ""))

		obj, err := store.Get(ctx, "ssc/2021001_y")
		require.NoError(t, err)
		defer obj.Body.Close()
		require.Equal(t, blob.DefaultContentType, obj.ContentType)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "profile/missing.png")
		require.ErrorIs(t, err, blob.ErrNotFound)
	})
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := s3.New(context.Background(), s3.Config{Region: "us-east-1"})
	require.Error(t, err)
}
