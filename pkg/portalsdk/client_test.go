package portalsdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tnp/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestNewClient_TrimsSlash(t *testing.T) {
	t.Parallel()
	c := NewClient("https://portal.example.com/")
	require.Equal(t, "https://portal.example.com", c.BaseURL)
	require.NotNil(t, c.HTTPClient)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		if req.Password != "correct" {
			ErrInvalidCredentials.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, LoginResponse{Token: "tok", MustRotate: true})
	})
	c := newTestClient(t, mux)

	t.Run("success", func(t *testing.T) {
		out, err := c.Login(context.Background(), "2021001", "correct")
		require.NoError(t, err)
		require.Equal(t, "tok", out.Token)
		require.True(t, out.MustRotate)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		_, err := c.Login(context.Background(), "2021001", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})

	t.Run("authenticate", func(t *testing.T) {
		s, err := c.Authenticate(context.Background(), "2021001", "correct")
		require.NoError(t, err)
		require.Equal(t, "tok", s.Token())
		require.True(t, s.MustRotate())
	})
}

func TestSession_ChangePassword(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/change-password", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			ErrUnauthorized.WriteError(w)
			return
		}
		var req ChangePasswordRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.OldPassword != "old" {
			ErrOldPasswordIncorrect.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "password updated"})
	})
	c := newTestClient(t, mux)

	s := c.NewSession("tok", true)
	err := s.ChangePassword(context.Background(), "nope", "new-password")
	require.ErrorIs(t, err, ErrOldPasswordIncorrect)
	require.True(t, s.MustRotate())

	require.NoError(t, s.ChangePassword(context.Background(), "old", "new-password"))
	require.False(t, s.MustRotate())

	err = c.NewSession("other", false).ChangePassword(context.Background(), "old", "new-password")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestProvision(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/admin/provision", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "admin-secret", r.Header.Get(AdminTokenHeader))

		var rows []ProvisionRow
		if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
			body, _ := io.ReadAll(r.Body)
			require.Contains(t, string(body), "identifier,email")
			rows = []ProvisionRow{{Identifier: "2021001", Email: "a@college.example"}}
		} else {
			var req ProvisionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			rows = req.Rows
		}

		report := ProvisionReport{Total: len(rows)}
		for i, row := range rows {
			report.Succeeded++
			report.Rows = append(report.Rows, ProvisionRowResult{
				Row: i + 1, Identifier: row.Identifier, Email: row.Email, Status: "succeeded",
			})
		}
		httpx.WriteJSON(w, http.StatusOK, report)
	})
	c := newTestClient(t, mux)

	report, err := c.Provision(context.Background(), "admin-secret", []ProvisionRow{
		{Identifier: "2021001", Email: "a@college.example"},
		{Identifier: "2021002", Email: "b@college.example"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Succeeded)
	require.Equal(t, "2021002", report.Rows[1].Identifier)

	report, err = c.ProvisionCSV(context.Background(), "admin-secret",
		strings.NewReader("identifier,email\n2021001,a@college.example\n"))
	require.NoError(t, err)
	require.Equal(t, 1, report.Total)
}

func TestSession_Profile(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/student/profile", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Asha", r.FormValue("first_name"))
		_, h, err := r.FormFile("resume")
		require.NoError(t, err)
		require.Equal(t, "cv.pdf", h.Filename)
		httpx.WriteJSON(w, http.StatusCreated, ProfileCreatedResponse{Success: true, Message: "created"})
	})
	mux.HandleFunc("GET /v1/student/profile", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, Profile{
			Identifier:           "2021001",
			FirstName:            "Asha",
			ProgrammingLanguages: json.RawMessage(`["go"]`),
			SemesterCGPA:         make([]*float64, 8),
		})
	})
	mux.HandleFunc("PUT /v1/student/profile", func(w http.ResponseWriter, r *http.Request) {
		NewValidationError(map[string]string{"email": "required"}).WriteError(w)
	})
	mux.HandleFunc("POST /v1/student/upload", func(w http.ResponseWriter, r *http.Request) {
		_, h, err := r.FormFile("profile")
		require.NoError(t, err)
		httpx.WriteJSON(w, http.StatusOK, UploadResponse{Message: "ok", ImageURL: "https://x/media/profile/" + h.Filename})
	})
	s := newTestClient(t, mux).NewSession("tok", false)
	ctx := context.Background()

	err := s.CreateProfile(ctx,
		map[string]string{"first_name": "Asha"},
		map[string]File{"resume": {Filename: "cv.pdf", Body: strings.NewReader("%PDF-1.4")}},
	)
	require.NoError(t, err)

	p, err := s.GetProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, "Asha", p.FirstName)
	require.JSONEq(t, `["go"]`, string(p.ProgrammingLanguages))
	require.Len(t, p.SemesterCGPA, 8)

	err = s.UpdateContact(ctx, ContactUpdateRequest{FirstName: "Asha"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, ErrorCodeValidation, apiErr.Code)
	require.Equal(t, "required", apiErr.Details["email"])
	require.Contains(t, apiErr.Error(), "email: required")

	url, err := s.UploadProfilePhoto(ctx, File{Filename: "me.png", Body: strings.NewReader("png")})
	require.NoError(t, err)
	require.Equal(t, "https://x/media/profile/me.png", url)
}

func TestGetMedia(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /media/{kind}/{filename}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("filename") != "2021001_a.png" {
			ErrNotFound.WriteError(w)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	})
	c := newTestClient(t, mux)

	body, ct, err := c.GetMedia(context.Background(), "profile", "2021001_a.png")
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))
	require.Equal(t, "image/png", ct)

	_, _, err = c.GetMedia(context.Background(), "profile", "missing.png")
	require.ErrorIs(t, err, ErrNotFound)

	body, _, err = c.GetMediaURL(context.Background(), "https://elsewhere.example/media/profile/2021001_a.png")
	require.NoError(t, err)
	require.NoError(t, body.Close())

	_, _, err = c.GetMediaURL(context.Background(), "https://elsewhere.example/other/path")
	require.Error(t, err)
}

func TestParseErrorResponse_Fallback(t *testing.T) {
	t.Parallel()

	resp := &http.Response{StatusCode: http.StatusBadGateway}
	err := parseErrorResponse(resp, []byte("<html>bad gateway</html>"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
	require.Contains(t, apiErr.Description, "502")
	require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
}
