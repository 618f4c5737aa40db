package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime of portal access tokens when none
// is configured.
const DefaultAccessTokenTTL = 24 * time.Hour

// Claims are the access-token claims issued after a successful login.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the credential record's primary key.
	UserID int64 `json:"id"`

	// Identifier is the login username (GR number). Mirrors "sub".
	Identifier string `json:"identifier"`

	// MustRotate is true while the password is still the provisioned one.
	MustRotate bool `json:"must_rotate"`
}

// NewAccessClaims builds claims for a credential. A zero ttl leaves the
// token without an expiry.
func NewAccessClaims(
	userID int64,
	identifier string,
	mustRotate bool,
	issuer string,
	ttl time.Duration,
	now time.Time,
) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  identifier,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       NewJTI(),
		},
		UserID:     userID,
		Identifier: identifier,
		MustRotate: mustRotate,
	}
	if ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return c
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateIdentity makes sure the custom identity claims are present and
// agree with "sub".
func (c *Claims) ValidateIdentity() error {
	if c.UserID <= 0 || c.Identifier == "" {
		return ErrInvalidClaim
	}
	if c.Subject != "" && c.Subject != c.Identifier {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}

// SubjectID renders the user id the way logs expect it.
func (c *Claims) SubjectID() string {
	return strconv.FormatInt(c.UserID, 10)
}
