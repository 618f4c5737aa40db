package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Tests use the minimum cost to keep the suite fast.
var testHasher = PasswordHasher{Cost: bcrypt.MinCost}

func TestNewPasswordHasher(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"configured cost", 10, 10},
		{"minimum", bcrypt.MinCost, bcrypt.MinCost},
		{"too low falls back", 1, DefaultCost},
		{"too high falls back", 40, DefaultCost},
		{"zero falls back", 0, DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NewPasswordHasher(tt.cost).Cost)
		})
	}
}

func TestHash_EmbedsCost(t *testing.T) {
	hash, err := testHasher.Hash("password123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.MinCost, cost)
	require.True(t, strings.HasPrefix(hash, "$2a$"))
}

func TestHash_TooLong(t *testing.T) {
	_, err := testHasher.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	require.ErrorIs(t, err, ErrPasswordTooLong)

	hash, err := testHasher.Hash(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)
	require.True(t, testHasher.Verify(strings.Repeat("a", MaxPasswordBytes), hash))
}

func TestHash_UniqueSalts(t *testing.T) {
	hash1, err := testHasher.Hash("samepassword")
	require.NoError(t, err)
	hash2, err := testHasher.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.True(t, testHasher.Verify("samepassword", hash1))
	require.True(t, testHasher.Verify("samepassword", hash2))
}

func TestVerify(t *testing.T) {
	hash, err := testHasher.Hash("correct-password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct", "correct-password", true},
		{"completely wrong", "wrong-password", false},
		{"case difference", "Correct-Password", false},
		{"extra space", "correct-password ", false},
		{"empty", "", false},
		{"prefix", "correct-passwor", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, testHasher.Verify(tt.password, hash))
		})
	}
}

func TestCompare_Errors(t *testing.T) {
	hash, err := testHasher.Hash("secret")
	require.NoError(t, err)

	require.ErrorIs(t, testHasher.Compare("nope", hash), ErrPasswordMismatch)

	for _, bad := range []string{"", "plaintext", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA", "$2a$04$short"} {
		err := testHasher.Compare("secret", bad)
		require.ErrorIs(t, err, ErrInvalidHash, bad)
		require.False(t, testHasher.Verify("secret", bad), bad)
	}
}

func TestVerify_IgnoresHasherCost(t *testing.T) {
	hash, err := PasswordHasher{Cost: 5}.Hash("secret")
	require.NoError(t, err)
	require.True(t, testHasher.Verify("secret", hash))
}

func TestGeneratePassword(t *testing.T) {
	for range 10 {
		password, err := GeneratePassword(DefaultPasswordCharset, DefaultPasswordLength)
		require.NoError(t, err)
		require.Len(t, password, DefaultPasswordLength)
		for _, char := range password {
			require.Contains(t, DefaultPasswordCharset, string(char))
		}
	}
}

func TestGeneratePassword_CustomAlphabet(t *testing.T) {
	password, err := GeneratePassword("ab", 64)
	require.NoError(t, err)
	require.Len(t, password, 64)
	require.Empty(t, strings.Trim(password, "ab"))
}

func TestGeneratePassword_Invalid(t *testing.T) {
	_, err := GeneratePassword("", 12)
	require.Error(t, err)
	_, err = GeneratePassword(DefaultPasswordCharset, 0)
	require.Error(t, err)
}

func TestGeneratePassword_Uniqueness(t *testing.T) {
	const count = 100
	seen := make(map[string]bool, count)
	for range count {
		password, err := GeneratePassword(DefaultPasswordCharset, DefaultPasswordLength)
		require.NoError(t, err)
		require.NotContains(t, seen, password, "duplicate password generated")
		seen[password] = true
	}
}

func TestGeneratePassword_CanBeHashed(t *testing.T) {
	password, err := GeneratePassword(DefaultPasswordCharset, DefaultPasswordLength)
	require.NoError(t, err)

	hash, err := testHasher.Hash(password)
	require.NoError(t, err)
	require.True(t, testHasher.Verify(password, hash))
}
