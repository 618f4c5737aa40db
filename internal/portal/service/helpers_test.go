package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/blob/drivers/memory"
	"github.com/aussiebroadwan/tnp/internal/portal/domain"
	"github.com/aussiebroadwan/tnp/internal/portal/form"
	"github.com/aussiebroadwan/tnp/internal/portal/store"
	"github.com/aussiebroadwan/tnp/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/tnp/pkg/cryptox"
	"github.com/aussiebroadwan/tnp/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testIssuer = "tnp-test"

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	testHasher = cryptox.PasswordHasher{Cost: bcrypt.MinCost}
	testNow    = time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	// pngBytes is enough of a PNG for content sniffing.
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newSigner(t *testing.T) *jwtx.HS256Signer {
	t.Helper()
	signer, err := jwtx.NewHS256Signer(testSecret, testIssuer, time.Hour)
	require.NoError(t, err)
	return signer
}

func newAuthService(t *testing.T, st store.Store) *AuthService {
	t.Helper()
	return &AuthService{
		Store:  st,
		Hasher: testHasher,
		Tokens: newSigner(t),
		Now:    func() time.Time { return testNow },
	}
}

func newMediaService(st store.Store) (*MediaService, *memory.Store) {
	blobs := memory.New()
	n := 0
	return &MediaService{
		Blobs:         blobs,
		Store:         st,
		PublicBaseURL: "https://portal.example/",
		NewID: func() string {
			n++
			return "id" + strconv.Itoa(n)
		},
		Now: func() time.Time { return testNow },
	}, blobs
}

// seedCredential stores identifier with password and returns its id.
func seedCredential(t *testing.T, st store.Store, identifier, password string, mustRotate bool) int64 {
	t.Helper()
	hash, err := testHasher.Hash(password)
	require.NoError(t, err)
	id, err := st.Credentials().CreateCredential(context.Background(), domain.Credential{
		Identifier:   identifier,
		Email:        identifier + "@college.example",
		PasswordHash: hash,
		MustRotate:   mustRotate,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	})
	require.NoError(t, err)
	return id
}

type upload struct {
	name     string
	filename string
	content  []byte
}

// multipartRequest builds a POST carrying values and files.
func multipartRequest(t *testing.T, values map[string]string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.name, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func parseForm(t *testing.T, schema form.Schema, values map[string]string, files ...upload) (*form.Form, error) {
	t.Helper()
	return schema.Parse(multipartRequest(t, values, files...))
}
