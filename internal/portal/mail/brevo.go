package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBrevoURL is Brevo's transactional email endpoint.
const DefaultBrevoURL = "https://api.brevo.com/v3/smtp/email"

// BrevoConfig configures the Brevo transactional API sender.
type BrevoConfig struct {
	APIKey      string
	SenderName  string
	SenderEmail string
	Portal      string // used in the greeting, e.g. "TnP Portal"
	Team        string // used in the signature, e.g. "TnP Team"
	URL         string // defaults to DefaultBrevoURL
	Timeout     time.Duration
}

type BrevoSender struct {
	cfg    BrevoConfig
	client *http.Client
}

func NewBrevoSender(cfg BrevoConfig) (*BrevoSender, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("mail: brevo api key not set")
	}
	if cfg.SenderEmail == "" {
		return nil, errors.New("mail: sender email not set")
	}
	if cfg.URL == "" {
		cfg.URL = DefaultBrevoURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &BrevoSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	TextContent string         `json:"textContent"`
}

func (s *BrevoSender) SendCredentials(ctx context.Context, to, identifier, password string) error {
	msg, err := RenderCredentials(s.cfg.Portal, s.cfg.Team, identifier, password)
	if err != nil {
		return err
	}

	b, err := json.Marshal(brevoRequest{
		Sender:      brevoAddress{Name: s.cfg.SenderName, Email: s.cfg.SenderEmail},
		To:          []brevoAddress{{Email: to}},
		Subject:     msg.Subject,
		TextContent: msg.Text,
	})
	if err != nil {
		return fmt.Errorf("mail: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("mail: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%w: brevo status %d: %s", ErrSend, resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}

var _ Sender = (*BrevoSender)(nil)
