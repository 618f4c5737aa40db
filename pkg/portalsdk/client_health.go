package portalsdk

import (
	"context"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}

	return &health, nil
}

// GetReadiness checks if the service is ready. A degraded service answers
// 503 which is returned as an *APIError.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}

	return &health, nil
}

// Hello calls the greeting route.
func (c *Client) Hello(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/hello", nil, nil)
	if err != nil {
		return "", err
	}

	var out HelloResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.Message, nil
}
