package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tnp/internal/portal/blob"
	"github.com/stretchr/testify/require"
)

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Put(ctx, "profile/a.png", strings.NewReader("png-bytes"), 9, "image/png"))

	obj, err := s.Get(ctx, "profile/a.png")
	require.NoError(t, err)
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))
	require.Equal(t, "image/png", obj.ContentType)
	require.Equal(t, int64(9), obj.Size)
	require.Equal(t, []string{"profile/a.png"}, s.Keys())
}

func TestPut_DefaultContentType(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Put(ctx, "resume/a", strings.NewReader("x"), -1, ""))
	obj, err := s.Get(ctx, "resume/a")
	require.NoError(t, err)
	require.Equal(t, blob.DefaultContentType, obj.ContentType)
}

func TestPut_SizeMismatch(t *testing.T) {
	err := New().Put(context.Background(), "k", strings.NewReader("abc"), 10, "text/plain")
	require.Error(t, err)
}

func TestGet_NotFound(t *testing.T) {
	_, err := New().Get(context.Background(), "missing")
	require.ErrorIs(t, err, blob.ErrNotFound)
}
