// Package storetest is a driver-agnostic test suite for store.Store.
package storetest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/domain"
	"github.com/aussiebroadwan/tnp/internal/portal/store"
	"github.com/stretchr/testify/require"
)

// Run exercises every repository method against stores produced by open.
// Each subtest gets a fresh, migrated store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("CreateAndGetCredential", func(t *testing.T) { testCreateAndGetCredential(t, open(t)) })
	t.Run("DuplicateIdentifier", func(t *testing.T) { testDuplicateIdentifier(t, open(t)) })
	t.Run("CredentialNotFound", func(t *testing.T) { testCredentialNotFound(t, open(t)) })
	t.Run("UpdatePasswordHash", func(t *testing.T) { testUpdatePasswordHash(t, open(t)) })
	t.Run("UpdateProfilePhotoKey", func(t *testing.T) { testUpdateProfilePhotoKey(t, open(t)) })
	t.Run("ProfileRoundTrip", func(t *testing.T) { testProfileRoundTrip(t, open(t)) })
	t.Run("DuplicateProfile", func(t *testing.T) { testDuplicateProfile(t, open(t)) })
	t.Run("UpdateContact", func(t *testing.T) { testUpdateContact(t, open(t)) })
	t.Run("WithTxRollback", func(t *testing.T) { testWithTxRollback(t, open(t)) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, open(t).Ping(context.Background())) })
}

func newCredential(identifier string, mustRotate bool) domain.Credential {
	return domain.Credential{
		Identifier:   identifier,
		Email:        identifier + "@college.example",
		PasswordHash: "$2a$04$placeholderhashplaceholderhashplaceholderhashpla",
		MustRotate:   mustRotate,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func createCredential(t *testing.T, s store.Store, identifier string) int64 {
	t.Helper()
	id, err := s.Credentials().CreateCredential(context.Background(), newCredential(identifier, true))
	require.NoError(t, err)
	return id
}

func testCreateAndGetCredential(t *testing.T, s store.Store) {
	ctx := context.Background()
	want := newCredential("2021001", true)

	id, err := s.Credentials().CreateCredential(ctx, want)
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := s.Credentials().GetCredentialByIdentifier(ctx, "2021001")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, want.Email, got.Email)
	require.Equal(t, want.PasswordHash, got.PasswordHash)
	require.True(t, got.MustRotate)
	require.Empty(t, got.ProfilePhotoKey)
	require.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Second)

	byID, err := s.Credentials().GetCredentialByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, got.Identifier, byID.Identifier)

	id2 := createCredential(t, s, "2021002")
	require.NotEqual(t, id, id2)
}

func testDuplicateIdentifier(t *testing.T, s store.Store) {
	ctx := context.Background()
	createCredential(t, s, "2021001")

	_, err := s.Credentials().CreateCredential(ctx, newCredential("2021001", false))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func testCredentialNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.Credentials().GetCredentialByIdentifier(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Credentials().GetCredentialByID(ctx, 9999)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Credentials().UpdatePasswordHash(ctx, 9999, "x", false, time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testUpdatePasswordHash(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := createCredential(t, s, "2021001")
	at := time.Now().UTC().Add(time.Hour).Truncate(time.Second)

	require.NoError(t, s.Credentials().UpdatePasswordHash(ctx, id, "new-hash", false, at))

	got, err := s.Credentials().GetCredentialByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.False(t, got.MustRotate)
	require.WithinDuration(t, at, got.UpdatedAt, time.Second)
}

func testUpdateProfilePhotoKey(t *testing.T, s store.Store) {
	ctx := context.Background()
	createCredential(t, s, "2021001")

	require.NoError(t, s.Credentials().UpdateProfilePhotoKey(ctx, "2021001", "profile/2021001_x.png", time.Now()))

	got, err := s.Credentials().GetCredentialByIdentifier(ctx, "2021001")
	require.NoError(t, err)
	require.Equal(t, "profile/2021001_x.png", got.ProfilePhotoKey)

	err = s.Credentials().UpdateProfilePhotoKey(ctx, "missing", "k", time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)
}

// SampleProfile returns a fully populated profile for identifier.
func SampleProfile(identifier string) domain.Profile {
	pct := func(v float64) *float64 { return &v }
	year := func(v int) *int { return &v }

	p := domain.Profile{
		Identifier:             identifier,
		FirstName:              "Asha",
		LastName:               "Patil",
		Gender:                 "female",
		DateOfBirth:            "2003-04-12",
		ContactPrimary:         "9876543210",
		Email:                  identifier + "@college.example",
		AadhaarNumber:          "123412341234",
		StudentID:              "S-" + identifier,
		CurrentYear:            3,
		Department:             "Computer Engineering",
		YearOfAdmission:        2021,
		ExpectedGraduationYear: 2025,
		SSC:                    domain.Schooling{Percentage: pct(91.4), Year: year(2019), MarksheetKey: "ssc/" + identifier + "_a.pdf"},
		HSC:                    domain.Schooling{Percentage: pct(84.2), Year: year(2021)},
		ProgrammingLanguages:   json.RawMessage(`["go","python"]`),
		Projects:               json.RawMessage(`[{"title":"portal"}]`),
		ResumeKey:              "resume/" + identifier + "_b.pdf",
		CreatedAt:              time.Now().UTC().Truncate(time.Second),
	}
	p.SemesterCGPA[0] = pct(8.5)
	p.SemesterCGPA[1] = pct(8.9)
	return p
}

func testProfileRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	createCredential(t, s, "2021001")
	want := SampleProfile("2021001")

	id, err := s.Profiles().CreateProfile(ctx, want)
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := s.Profiles().GetProfileByIdentifier(ctx, "2021001")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, want.FirstName, got.FirstName)
	require.Empty(t, got.MiddleName)
	require.Equal(t, want.Department, got.Department)
	require.Equal(t, 2025, got.ExpectedGraduationYear)
	require.InDelta(t, 91.4, *got.SSC.Percentage, 0.001)
	require.Equal(t, 2019, *got.SSC.Year)
	require.Equal(t, want.SSC.MarksheetKey, got.SSC.MarksheetKey)
	require.Empty(t, got.HSC.MarksheetKey)
	require.Nil(t, got.Diploma.Percentage)
	require.Nil(t, got.Diploma.Year)
	require.InDelta(t, 8.9, *got.SemesterCGPA[1], 0.001)
	require.Nil(t, got.SemesterCGPA[7])
	require.JSONEq(t, `["go","python"]`, string(got.ProgrammingLanguages))
	require.JSONEq(t, `[]`, string(got.SoftSkills))
	require.Equal(t, want.ResumeKey, got.ResumeKey)

	_, err = s.Profiles().GetProfileByIdentifier(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testDuplicateProfile(t *testing.T, s store.Store) {
	ctx := context.Background()
	createCredential(t, s, "2021001")

	_, err := s.Profiles().CreateProfile(ctx, SampleProfile("2021001"))
	require.NoError(t, err)

	_, err = s.Profiles().CreateProfile(ctx, SampleProfile("2021001"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func testUpdateContact(t *testing.T, s store.Store) {
	ctx := context.Background()
	createCredential(t, s, "2021001")
	_, err := s.Profiles().CreateProfile(ctx, SampleProfile("2021001"))
	require.NoError(t, err)

	update := domain.ContactUpdate{
		FirstName:        "Asha",
		MiddleName:       "R",
		LastName:         "Kulkarni",
		Email:            "asha@new.example",
		ContactPrimary:   "9000000000",
		ContactAlternate: "9111111111",
	}
	require.NoError(t, s.Profiles().UpdateContact(ctx, "2021001", update, time.Now().UTC()))

	got, err := s.Profiles().GetProfileByIdentifier(ctx, "2021001")
	require.NoError(t, err)
	require.Equal(t, "R", got.MiddleName)
	require.Equal(t, "Kulkarni", got.LastName)
	require.Equal(t, "asha@new.example", got.Email)
	require.Equal(t, "9111111111", got.ContactAlternate)
	require.Equal(t, "Computer Engineering", got.Department, "other fields untouched")

	err = s.Profiles().UpdateContact(ctx, "missing", update, time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testWithTxRollback(t *testing.T, s store.Store) {
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Credentials().CreateCredential(ctx, newCredential("2021001", true)); err != nil {
			return err
		}
		// Second insert of the same identifier fails and aborts the tx.
		_, err := tx.Credentials().CreateCredential(ctx, newCredential("2021001", true))
		return err
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Credentials().GetCredentialByIdentifier(ctx, "2021001")
	require.ErrorIs(t, err, store.ErrNotFound, "rolled back insert must not be visible")

	err = s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Credentials().CreateCredential(ctx, newCredential("2021002", true))
		return err
	})
	require.NoError(t, err)

	_, err = s.Credentials().GetCredentialByIdentifier(ctx, "2021002")
	require.NoError(t, err)
}
