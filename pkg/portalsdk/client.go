package portalsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AdminTokenHeader carries the provisioning token.
const AdminTokenHeader = "X-Admin-Token"

// Client talks to the portal's public and admin endpoints and creates
// authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the portal at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges an identifier and password for an access token.
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/login", LoginRequest{
		Identifier: identifier,
		Password:   password,
	}, nil)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Authenticate logs in and returns a Session bound to the token.
func (c *Client) Authenticate(ctx context.Context, identifier, password string) (*Session, error) {
	login, err := c.Login(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	return c.NewSession(login.Token, login.MustRotate), nil
}

// Register creates a self-service account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/register", req, nil)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Provision creates accounts for rows and mails their credentials.
func (c *Client) Provision(ctx context.Context, adminToken string, rows []ProvisionRow) (*ProvisionReport, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/admin/provision",
		ProvisionRequest{Rows: rows},
		map[string]string{AdminTokenHeader: adminToken},
	)
	if err != nil {
		return nil, err
	}

	var out ProvisionReport
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProvisionCSV is Provision with a CSV body whose header names an
// identifier (or gr_number) column and an email column.
func (c *Client) ProvisionCSV(ctx context.Context, adminToken string, csv io.Reader) (*ProvisionReport, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/admin/provision", csv, map[string]string{
		"Content-Type":   "text/csv",
		AdminTokenHeader: adminToken,
	})
	if err != nil {
		return nil, err
	}

	var out ProvisionReport
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMedia downloads a stored file. The caller must close the body.
func (c *Client) GetMedia(ctx context.Context, kind, filename string) (io.ReadCloser, string, error) {
	path := "/media/" + url.PathEscape(kind) + "/" + url.PathEscape(filename)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, "", parseErrorResponse(resp, body)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// GetMediaURL downloads the file behind an absolute URL returned by the
// portal, e.g. Profile.ResumeURL.
func (c *Client) GetMediaURL(ctx context.Context, mediaURL string) (io.ReadCloser, string, error) {
	u, err := url.Parse(mediaURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid media url: %w", err)
	}
	kind, filename, ok := strings.Cut(strings.TrimPrefix(u.Path, "/media/"), "/")
	if !ok || !strings.HasPrefix(u.Path, "/media/") {
		return nil, "", fmt.Errorf("invalid media url: %s", mediaURL)
	}
	return c.GetMedia(ctx, kind, filename)
}
