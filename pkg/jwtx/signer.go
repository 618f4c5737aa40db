package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret accepted, in bytes.
const MinSecretLength = 16

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// ErrWeakSecret is returned when a signing secret is shorter than
// MinSecretLength.
var ErrWeakSecret = errors.New("jwtx: signing secret too short")

// HS256Signer signs tokens with HMAC SHA-256 over a shared secret.
type HS256Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewHS256Signer returns a signer for secret. Tokens it issues through
// Issue carry issuer and expire after ttl (never when ttl is zero).
func NewHS256Signer(secret []byte, issuer string, ttl time.Duration) (*HS256Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrWeakSecret, MinSecretLength, len(secret))
	}
	if ttl < 0 {
		return nil, fmt.Errorf("jwtx: negative token ttl %s", ttl)
	}
	return &HS256Signer{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

func (s *HS256Signer) Alg() string        { return jwt.SigningMethodHS256.Alg() }
func (s *HS256Signer) Issuer() string     { return s.issuer }
func (s *HS256Signer) TTL() time.Duration { return s.ttl }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Issue builds access claims for a credential and signs them.
func (s *HS256Signer) Issue(userID int64, identifier string, mustRotate bool, now time.Time) (string, Claims, error) {
	claims := NewAccessClaims(userID, identifier, mustRotate, s.issuer, s.ttl, now)
	token, err := s.Sign(claims)
	if err != nil {
		return "", Claims{}, err
	}
	return token, claims, nil
}
