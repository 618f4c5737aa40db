package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/domain"
	"github.com/aussiebroadwan/tnp/internal/portal/form"
	"github.com/stretchr/testify/require"
)

func profileValues() map[string]string {
	return map[string]string{
		"first_name":               "Asha",
		"last_name":                "Patil",
		"gender":                   "female",
		"date_of_birth":            "2003-04-12",
		"contact_number_primary":   "9876543210",
		"email":                    "asha@college.example",
		"aadhaar_number":           "123412341234",
		"student_id_number":        "S-2021001",
		"current_year":             "3",
		"department":               "Computer Engineering",
		"year_of_admission":        "2021",
		"expected_graduation_year": "2025",
		"ssc_percentage":           "91.4",
		"ssc_year":                 "2019",
		"sem1_cgpa":                "8.5",
		"programming_languages":    `[ "go", "python" ]`,
		"soft_skills":              "teamwork",
	}
}

func newProfileService(t *testing.T) (*ProfileService, *MediaService) {
	t.Helper()
	st := newTestStore(t)
	seedCredential(t, st, "2021001", "temp-pass-1", true)
	media, _ := newMediaService(st)
	return &ProfileService{Store: st, Media: media, Now: func() time.Time { return testNow }}, media
}

func TestProfileService_CreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, media := newProfileService(t)

	f, err := parseForm(t, svc.Schema(), profileValues(),
		upload{FieldProfilePhoto, "me.png", pngBytes},
		upload{FieldSSCMarksheet, "ssc.png", pngBytes},
	)
	require.NoError(t, err)

	created, err := svc.CreateProfile(ctx, "2021001", f)
	require.NoError(t, err)
	require.Positive(t, created.ID)
	require.Equal(t, "profile/2021001_id1.png", created.ProfilePhotoKey)
	require.Equal(t, "ssc/2021001_id2.png", created.SSC.MarksheetKey)
	require.Empty(t, created.ResumeKey)

	got, err := svc.GetProfile(ctx, "2021001")
	require.NoError(t, err)
	require.Equal(t, "Asha", got.FirstName)
	require.Equal(t, "S-2021001", got.StudentID)
	require.Equal(t, 3, got.CurrentYear)
	require.InDelta(t, 91.4, *got.SSC.Percentage, 0.001)
	require.Equal(t, 2019, *got.SSC.Year)
	require.Nil(t, got.HSC.Percentage)
	require.InDelta(t, 8.5, *got.SemesterCGPA[0], 0.001)
	require.Nil(t, got.SemesterCGPA[1])
	require.JSONEq(t, `["go","python"]`, string(got.ProgrammingLanguages))
	require.JSONEq(t, `"teamwork"`, string(got.SoftSkills))
	require.JSONEq(t, `[]`, string(got.Projects))

	// The credential now points at the same photo.
	cred, err := svc.Store.Credentials().GetCredentialByIdentifier(ctx, "2021001")
	require.NoError(t, err)
	require.Equal(t, created.ProfilePhotoKey, cred.ProfilePhotoKey)

	obj, err := media.Open(ctx, "profile", "2021001_id1.png")
	require.NoError(t, err)
	defer obj.Body.Close()
	require.Equal(t, "image/png", obj.ContentType)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.Equal(t, pngBytes, body)

	t.Run("second create conflicts", func(t *testing.T) {
		f, err := parseForm(t, svc.Schema(), profileValues())
		require.NoError(t, err)
		_, err = svc.CreateProfile(ctx, "2021001", f)
		require.ErrorIs(t, err, ErrProfileExists)
	})
}

func TestProfileService_SchemaRejects(t *testing.T) {
	t.Parallel()
	svc, _ := newProfileService(t)

	values := profileValues()
	delete(values, "first_name")
	values["nickname"] = "ash"

	_, err := parseForm(t, svc.Schema(), values,
		upload{FieldResume, "cv.pdf", []byte("plain text, not a pdf")},
	)
	var verr *form.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "required", verr.Fields["first_name"])
	require.Equal(t, "unknown field", verr.Fields["nickname"])
	require.Contains(t, verr.Fields[FieldResume], "not allowed")
}

func TestProfileService_ConversionErrors(t *testing.T) {
	t.Parallel()
	svc, _ := newProfileService(t)

	values := profileValues()
	values["current_year"] = "third"
	values["ssc_percentage"] = "140"
	values["sem2_cgpa"] = "11"
	values["date_of_birth"] = "12/04/2003"
	values["email"] = "not-an-email"

	f, err := parseForm(t, svc.Schema(), values)
	require.NoError(t, err)

	_, err = svc.CreateProfile(context.Background(), "2021001", f)
	var verr *form.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "expected a whole number", verr.Fields["current_year"])
	require.Contains(t, verr.Fields["ssc_percentage"], "between")
	require.Contains(t, verr.Fields["sem2_cgpa"], "between")
	require.Contains(t, verr.Fields, "date_of_birth")
	require.Contains(t, verr.Fields, "email")

	_, err = svc.GetProfile(context.Background(), "2021001")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_UpdateContact(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newProfileService(t)

	update := domain.ContactUpdate{
		FirstName:      "Asha",
		LastName:       "Kulkarni",
		Email:          "asha.k@college.example",
		ContactPrimary: "9000000000",
	}

	require.ErrorIs(t, svc.UpdateContact(ctx, "2021001", update), ErrProfileNotFound)

	f, err := parseForm(t, svc.Schema(), profileValues())
	require.NoError(t, err)
	_, err = svc.CreateProfile(ctx, "2021001", f)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateContact(ctx, "2021001", update))
	got, err := svc.GetProfile(ctx, "2021001")
	require.NoError(t, err)
	require.Equal(t, "Kulkarni", got.LastName)
	require.Equal(t, "asha.k@college.example", got.Email)
	require.Equal(t, "9000000000", got.ContactPrimary)

	t.Run("required fields", func(t *testing.T) {
		err := svc.UpdateContact(ctx, "2021001", domain.ContactUpdate{FirstName: "  "})
		var verr *form.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 3)
	})
}

func TestMediaService_UploadProfilePhoto(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	seedCredential(t, st, "2021001", "temp-pass-1", true)
	media, blobs := newMediaService(st)

	f, err := parseForm(t, media.PhotoSchema(), nil, upload{"profile", "me.png", pngBytes})
	require.NoError(t, err)
	file, ok := f.File("profile")
	require.True(t, ok)

	key, err := media.UploadProfilePhoto(ctx, "2021001", file)
	require.NoError(t, err)
	require.Equal(t, "profile/2021001_id1.png", key)
	require.Equal(t, "https://portal.example/media/profile/2021001_id1.png", media.URL(key))
	require.Equal(t, []string{key}, blobs.Keys())

	cred, err := st.Credentials().GetCredentialByIdentifier(ctx, "2021001")
	require.NoError(t, err)
	require.Equal(t, key, cred.ProfilePhotoKey)

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := media.UploadProfilePhoto(ctx, "2099999", file)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("schema requires the photo", func(t *testing.T) {
		_, err := parseForm(t, media.PhotoSchema(), nil)
		var verr *form.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "required", verr.Fields["profile"])
	})
}

func TestMediaService_Open(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	media, blobs := newMediaService(newTestStore(t))
	require.NoError(t, blobs.Put(ctx, "resume/2021001_x.pdf", strings.NewReader("%PDF-1.4"), 8, ""))

	obj, err := media.Open(ctx, "resume", "2021001_x.pdf")
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())

	for _, tc := range []struct{ kind, filename string }{
		{"avatars", "2021001_x.pdf"},
		{"resume", "missing.pdf"},
		{"resume", ".."},
		{"resume", "..%2Fprofile"},
		{"resume", ""},
	} {
		_, err := media.Open(ctx, tc.kind, tc.filename)
		require.ErrorIs(t, err, ErrMediaNotFound, "%s/%s", tc.kind, tc.filename)
	}
	require.Empty(t, media.URL(""))
}

func TestCheckIfPDF(t *testing.T) {
	t.Parallel()

	require.NoError(t, checkIfPDF(strings.NewReader(string(pngBytes))))
	require.NoError(t, checkIfPDF(strings.NewReader("PK")))
	require.Error(t, checkIfPDF(strings.NewReader("%PDF-1.7 truncated garbage")))
}
