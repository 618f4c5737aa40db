package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// ErrInvalidToken is the root of every verification failure; the more
// specific errors below all wrap it.
var ErrInvalidToken = errors.New("jwtx: invalid token")

var (
	ErrMalformed    = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrAlgMismatch  = fmt.Errorf("%w: algorithm mismatch", ErrInvalidToken)
	ErrInvalidSig   = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	ErrIssuer       = fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	ErrExpired      = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrNotYetValid  = fmt.Errorf("%w: not yet valid", ErrInvalidToken)
	ErrInvalidClaim = fmt.Errorf("%w: invalid claims", ErrInvalidToken)
)

// VerifyOptions captures expectations beyond the signature.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// HS256Verifier validates tokens signed by an HS256Signer with the same
// secret.
type HS256Verifier struct {
	secret []byte
	opts   VerifyOptions
	parser *jwt.Parser
}

// NewHS256Verifier creates a verifier for secret that requires issuer when
// it is non-empty.
func NewHS256Verifier(secret []byte, issuer string) (*HS256Verifier, error) {
	return NewHS256VerifierWithOptions(secret, VerifyOptions{Issuer: issuer})
}

// NewHS256VerifierWithOptions is NewHS256Verifier with full control over
// the checks applied.
func NewHS256VerifierWithOptions(secret []byte, opts VerifyOptions) (*HS256Verifier, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrWeakSecret, MinSecretLength, len(secret))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	// Expiry and issuer are checked by Claims so the errors stay ours.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)

	return &HS256Verifier{
		secret: append([]byte(nil), secret...),
		opts:   opts,
		parser: parser,
	}, nil
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	if tokenStr == "" {
		return Claims{}, ErrMalformed
	}

	var claims Claims
	token, err := v.parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryWithLeeway(v.opts.Now(), v.opts.Leeway); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIdentity(); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// classify maps golang-jwt errors onto ours, keeping the original cause.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return fmt.Errorf("%w: %w", ErrAlgMismatch, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrAlgMismatch, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
