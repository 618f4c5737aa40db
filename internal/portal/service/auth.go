package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/tnp/internal/portal/domain"
	"github.com/aussiebroadwan/tnp/internal/portal/store"
	"github.com/aussiebroadwan/tnp/pkg/cryptox"
	"github.com/aussiebroadwan/tnp/pkg/jwtx"
	"github.com/aussiebroadwan/tnp/pkg/slogx"
)

// DefaultMinPasswordLength applies when AuthService.MinPasswordLength is unset.
const DefaultMinPasswordLength = 8

var (
	ErrMissingFields        = errors.New("missing_fields")
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrIdentifierNotFound   = errors.New("identifier_not_found")
	ErrOldPasswordIncorrect = errors.New("old_password_incorrect")
	ErrPasswordTooShort     = errors.New("password_too_short")
	ErrPasswordTooLong      = errors.New("password_too_long")
	ErrPasswordUnchanged    = errors.New("password_unchanged")
	ErrIdentifierExists     = errors.New("identifier_exists")
	ErrInvalidEmail         = errors.New("invalid_email")
	ErrInvalidIdentifier    = errors.New("invalid_identifier")
)

// TokenIssuer mints access tokens. *jwtx.HS256Signer satisfies it.
type TokenIssuer interface {
	Issue(userID int64, identifier string, mustRotate bool, now time.Time) (string, jwtx.Claims, error)
}

type AuthService struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher
	Tokens TokenIssuer

	// MinPasswordLength bounds self-chosen passwords.
	MinPasswordLength int

	// RevealUnknownIdentifier makes Login return ErrIdentifierNotFound
	// instead of ErrInvalidCredentials for identifiers with no record.
	RevealUnknownIdentifier bool

	Now func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// LoginResult is a successful login.
type LoginResult struct {
	Token      string
	MustRotate bool
	Claims     jwtx.Claims
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) minLength() int {
	if s.MinPasswordLength > 0 {
		return s.MinPasswordLength
	}
	return DefaultMinPasswordLength
}

// burnCompare runs a bcrypt comparison against a throwaway hash so unknown
// identifiers cost as much as a wrong password.
// checkPassword bounds a self-chosen password. bcrypt only accepts up to
// cryptox.MaxPasswordBytes.
func (s *AuthService) checkPassword(password string) error {
	if utf8.RuneCountInString(password) < s.minLength() {
		return ErrPasswordTooShort
	}
	if len(password) > cryptox.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func (s *AuthService) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash("not-a-real-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	if s.dummyHash != "" {
		_ = s.Hasher.Verify(password, s.dummyHash)
	}
}

// Login checks identifier and password and issues an access token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return LoginResult{}, ErrMissingFields
	}

	cred, err := s.Store.Credentials().GetCredentialByIdentifier(ctx, identifier)
	if errors.Is(err, store.ErrNotFound) {
		s.burnCompare(password)
		l.Info("login for unknown identifier", slog.String("identifier", identifier))
		if s.RevealUnknownIdentifier {
			return LoginResult{}, ErrIdentifierNotFound
		}
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("load credential: %w", err)
	}

	if !s.Hasher.Verify(password, cred.PasswordHash) {
		l.Info("login with wrong password", slog.String("identifier", identifier))
		return LoginResult{}, ErrInvalidCredentials
	}

	token, claims, err := s.Tokens.Issue(cred.ID, cred.Identifier, cred.MustRotate, s.now())
	if err != nil {
		l.Error("failed to sign access token", "error", err)
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	l.Info("login succeeded",
		slog.String("identifier", cred.Identifier),
		slog.Bool("must_rotate", cred.MustRotate),
	)
	return LoginResult{Token: token, MustRotate: cred.MustRotate, Claims: claims}, nil
}

// ChangePassword replaces the caller's password after re-checking the old
// one against the stored record. must_rotate is cleared.
func (s *AuthService) ChangePassword(ctx context.Context, claims jwtx.Claims, oldPassword, newPassword string) error {
	l := slogx.FromContext(ctx)

	if oldPassword == "" || newPassword == "" {
		return ErrMissingFields
	}

	// The token may be stale; the stored record is authoritative.
	cred, err := s.Store.Credentials().GetCredentialByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}

	if !s.Hasher.Verify(oldPassword, cred.PasswordHash) {
		l.Info("password change with wrong old password", slog.Int64("user_id", cred.ID))
		return ErrOldPasswordIncorrect
	}

	if err := s.checkPassword(newPassword); err != nil {
		return err
	}
	if oldPassword == newPassword {
		return ErrPasswordUnchanged
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.Credentials().UpdatePasswordHash(ctx, cred.ID, hash, false, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	l.Info("password changed", slog.Int64("user_id", cred.ID))
	return nil
}

// Register creates a self-service account. The user chose the password so
// must_rotate is false.
func (s *AuthService) Register(ctx context.Context, identifier, email, password string) (int64, error) {
	identifier = strings.TrimSpace(identifier)
	email = strings.TrimSpace(email)

	if identifier == "" || email == "" || password == "" {
		return 0, ErrMissingFields
	}
	if !domain.ValidIdentifier(identifier) {
		return 0, ErrInvalidIdentifier
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return 0, ErrInvalidEmail
	}
	if err := s.checkPassword(password); err != nil {
		return 0, err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	id, err := s.Store.Credentials().CreateCredential(ctx, domain.Credential{
		Identifier:   identifier,
		Email:        email,
		PasswordHash: hash,
		MustRotate:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return 0, ErrIdentifierExists
	}
	if err != nil {
		return 0, fmt.Errorf("create credential: %w", err)
	}

	slogx.FromContext(ctx).Info("account registered",
		slog.Int64("user_id", id),
		slog.String("identifier", identifier),
	)
	return id, nil
}
