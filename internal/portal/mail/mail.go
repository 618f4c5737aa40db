// Package mail delivers credential emails to provisioned students.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"
)

var ErrSend = errors.New("mail: send failed")

// Sender delivers the initial login credentials for identifier to the
// student at to.
type Sender interface {
	SendCredentials(ctx context.Context, to, identifier, password string) error
}

// CredentialsSubject is the subject line of credential emails.
const CredentialsSubject = "Your Login Credentials"

var credentialsTmpl = template.Must(template.New("credentials").Parse(`Dear Student,

Welcome to the {{.Portal}}.

Your login credentials:
GR Number: {{.Identifier}}
Temporary Password: {{.Password}}

Please change your password after first login.

Regards,
{{.Team}}
`))

// Message is the rendered credentials email.
type Message struct {
	Subject string
	Text    string
}

// RenderCredentials renders the plain-text credentials email.
func RenderCredentials(portal, team, identifier, password string) (Message, error) {
	var buf bytes.Buffer
	err := credentialsTmpl.Execute(&buf, map[string]string{
		"Portal":     portal,
		"Team":       team,
		"Identifier": identifier,
		"Password":   password,
	})
	if err != nil {
		return Message{}, fmt.Errorf("mail: render credentials: %w", err)
	}
	return Message{Subject: CredentialsSubject, Text: buf.String()}, nil
}
