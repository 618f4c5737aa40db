// Package mailtest provides a recording mail.Sender for tests.
package mailtest

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/tnp/internal/portal/mail"
)

// Sent is one captured delivery.
type Sent struct {
	To         string
	Identifier string
	Password   string
}

// Recorder captures every SendCredentials call. FailFor makes sends to the
// listed addresses return an error wrapping mail.ErrSend.
type Recorder struct {
	mu      sync.Mutex
	sent    []Sent
	FailFor map[string]bool
}

func (r *Recorder) SendCredentials(ctx context.Context, to, identifier, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailFor[to] {
		return mail.ErrSend
	}
	r.sent = append(r.sent, Sent{To: to, Identifier: identifier, Password: password})
	return nil
}

// Sent returns a copy of the captured deliveries.
func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sent(nil), r.sent...)
}

var _ mail.Sender = (*Recorder)(nil)
