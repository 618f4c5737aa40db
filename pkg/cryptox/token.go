package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// SecretSize is the byte length of generated signing secrets (256 bits).
const SecretSize = 32

// GenerateToken returns size random bytes encoded as base64url without padding.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns the base64url SHA-256 digest of token (43 chars).
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// TokenMatches compares presented against expected in constant time. Both
// are fingerprinted first so the comparison does not leak their lengths.
// An empty expected token never matches.
func TokenMatches(presented, expected string) bool {
	if expected == "" {
		return false
	}
	a := FingerprintToken(presented)
	b := FingerprintToken(expected)
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
