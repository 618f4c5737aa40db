package portalsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Session performs requests as one logged in student. It is safe for
// concurrent use.
type Session struct {
	client *Client

	mu         sync.RWMutex
	token      string
	mustRotate bool
}

// NewSession wraps an existing access token.
func (c *Client) NewSession(token string, mustRotate bool) *Session {
	return &Session{client: c, token: token, mustRotate: mustRotate}
}

// Token returns the bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// MustRotate reports whether the password still has to be changed. The
// server does not reissue tokens, so this only changes through
// ChangePassword on this session.
func (s *Session) MustRotate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mustRotate
}

func (s *Session) doAuthRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	h := map[string]string{"Authorization": "Bearer " + s.Token()}
	for k, v := range headers {
		h[k] = v
	}
	return s.client.doRequest(ctx, method, path, body, h)
}

func (s *Session) doAuthJSON(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	return s.client.doJSON(ctx, method, path, payload, map[string]string{
		"Authorization": "Bearer " + s.Token(),
	})
}

// ChangePassword replaces the password. The current token stays valid.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/change-password", ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
	if err != nil {
		return err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return err
	}

	s.mu.Lock()
	s.mustRotate = false
	s.mu.Unlock()
	return nil
}

// UploadProfilePhoto replaces the profile picture and returns its URL.
func (s *Session) UploadProfilePhoto(ctx context.Context, photo File) (string, error) {
	body, contentType, err := multipartBody(nil, map[string]File{"profile": photo})
	if err != nil {
		return "", err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/student/upload", body, map[string]string{
		"Content-Type": contentType,
	})
	if err != nil {
		return "", err
	}

	var out UploadResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.ImageURL, nil
}

// CreateProfile submits the full profile. fields uses the form names
// (first_name, ssc_percentage, sem1_cgpa, ...); files may carry
// profile_photo, resume, ssc_marksheet, hsc_marksheet and
// diploma_marksheet.
func (s *Session) CreateProfile(ctx context.Context, fields map[string]string, files map[string]File) error {
	body, contentType, err := multipartBody(fields, files)
	if err != nil {
		return err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/student/profile", body, map[string]string{
		"Content-Type": contentType,
	})
	if err != nil {
		return err
	}

	var out ProfileCreatedResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("profile not created: %s", out.Message)
	}
	return nil
}

// GetProfile returns the caller's profile.
func (s *Session) GetProfile(ctx context.Context) (*Profile, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/student/profile", nil, nil)
	if err != nil {
		return nil, err
	}

	var out Profile
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateContact edits the contact fields of the caller's profile.
func (s *Session) UpdateContact(ctx context.Context, req ContactUpdateRequest) error {
	resp, err := s.doAuthJSON(ctx, http.MethodPut, "/v1/student/profile", req)
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}
