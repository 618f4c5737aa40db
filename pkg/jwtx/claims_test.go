package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tnp/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("with ttl", func(t *testing.T) {
		c := jwtx.NewAccessClaims(7, "2021001", true, "tnp-portal", time.Hour, now)
		require.Equal(t, int64(7), c.UserID)
		require.Equal(t, "2021001", c.Identifier)
		require.Equal(t, "2021001", c.Subject)
		require.True(t, c.MustRotate)
		require.Equal(t, "tnp-portal", c.Issuer)
		require.Equal(t, now, c.IssuedAt.Time)
		require.Equal(t, now.Add(time.Hour), c.ExpiresAt.Time)
		require.NotEmpty(t, c.ID)
	})

	t.Run("zero ttl has no expiry", func(t *testing.T) {
		c := jwtx.NewAccessClaims(7, "2021001", false, "", 0, now)
		require.Nil(t, c.ExpiresAt)
	})

	t.Run("unique jti", func(t *testing.T) {
		a := jwtx.NewAccessClaims(1, "a", false, "", 0, now)
		b := jwtx.NewAccessClaims(1, "a", false, "", 0, now)
		require.NotEqual(t, a.ID, b.ID)
	})
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "tnp-portal"},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("tnp-portal"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		err := c.ValidateIssuer("other-service")
		require.ErrorIs(t, err, jwtx.ErrIssuer)
		require.ErrorIs(t, err, jwtx.ErrInvalidToken)
	})
}

func TestValidateIdentity(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwtx.Claims
		wantErr bool
	}{
		{"complete", jwtx.Claims{UserID: 1, Identifier: "2021001", RegisteredClaims: jwt.RegisteredClaims{Subject: "2021001"}}, false},
		{"no subject", jwtx.Claims{UserID: 1, Identifier: "2021001"}, false},
		{"missing id", jwtx.Claims{Identifier: "2021001"}, true},
		{"missing identifier", jwtx.Claims{UserID: 1}, true},
		{"subject disagrees", jwtx.Claims{UserID: 1, Identifier: "2021001", RegisteredClaims: jwt.RegisteredClaims{Subject: "2021002"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.claims.ValidateIdentity()
			if tt.wantErr {
				require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateExpiryWithLeeway(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid with leeway", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second)),
			},
		}
		require.NoError(t, claims.ValidateExpiryWithLeeway(now, 30*time.Second))
	})

	t.Run("expired beyond leeway", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-2 * time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiryWithLeeway(now, 30*time.Second), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				NotBefore: jwt.NewNumericDate(now.Add(time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiryWithLeeway(now, 0), jwtx.ErrNotYetValid)
	})

	t.Run("no exp or nbf", func(t *testing.T) {
		require.NoError(t, (&jwtx.Claims{}).ValidateExpiryWithLeeway(now, 0))
	})
}
