package domain

import (
	"strings"
	"time"
)

// Credential is the login record for one student, keyed by identifier
// (the GR number).
type Credential struct {
	ID              int64
	Identifier      string
	Email           string
	PasswordHash    string // bcrypt encoded
	MustRotate      bool   // true while the password is the provisioned one
	ProfilePhotoKey string // object key, empty when no photo was uploaded
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidIdentifier reports whether identifier can appear in a media object
// key. Path separators are rejected because served filenames cannot hold them.
func ValidIdentifier(identifier string) bool {
	return identifier != "" && !strings.ContainsAny(identifier, `/\`)
}
