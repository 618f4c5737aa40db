package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// MaxPasswordBytes is the longest input bcrypt hashes.
const MaxPasswordBytes = 72

// Defaults for generated temporary passwords.
const (
	DefaultPasswordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultPasswordLength  = 12
)

var (
	ErrPasswordMismatch = errors.New("password does not match")
	ErrInvalidHash      = errors.New("invalid password hash")
	ErrPasswordTooLong  = errors.New("password too long")
)

// PasswordHasher hashes and verifies passwords with bcrypt. The cost is
// embedded in every hash, so raising it later still verifies old hashes.
type PasswordHasher struct {
	Cost int
}

// NewPasswordHasher returns a hasher for cost, falling back to DefaultCost
// when cost is outside bcrypt's accepted range.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return PasswordHasher{Cost: cost}
}

// Hash returns the self-describing bcrypt hash of password.
func (h PasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Compare reports why password does not match encodedHash, or nil when it does.
func (h PasswordHasher) Compare(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
}

// Verify reports whether password matches encodedHash. Malformed hashes
// never match.
func (h PasswordHasher) Verify(password, encodedHash string) bool {
	return h.Compare(password, encodedHash) == nil
}

// GeneratePassword returns a random password of length characters drawn
// uniformly from charset.
func GeneratePassword(charset string, length int) (string, error) {
	if charset == "" {
		return "", errors.New("password charset must not be empty")
	}
	if length <= 0 {
		return "", fmt.Errorf("password length must be positive, got %d", length)
	}

	alphabet := []rune(charset)
	limit := big.NewInt(int64(len(alphabet)))
	password := make([]rune, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = alphabet[n.Int64()]
	}
	return string(password), nil
}
