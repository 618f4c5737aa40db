package portalsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an HTTP request with the client's HTTP client.
func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// doJSON sends payload as a JSON body.
func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	payload any,
	headers map[string]string,
) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	h := map[string]string{"Content-Type": "application/json"}
	for k, v := range headers {
		h[k] = v
	}
	return c.doRequest(ctx, method, path, bytes.NewReader(body), h)
}

// decodeJSON decodes a JSON response into target, or returns an *APIError
// when the status is not the expected one.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// File is an upload for a multipart request.
type File struct {
	Filename string
	Body     io.Reader
}

// multipartBody encodes fields and files. It returns the body and its
// content type.
func multipartBody(fields map[string]string, files map[string]File) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}
	for name, f := range files {
		part, err := w.CreateFormFile(name, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to write file %s: %w", name, err)
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return nil, "", fmt.Errorf("failed to write file %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
