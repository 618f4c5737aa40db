package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/domain"
	"github.com/aussiebroadwan/tnp/internal/portal/form"
	"github.com/aussiebroadwan/tnp/internal/portal/store"
	"github.com/aussiebroadwan/tnp/pkg/slogx"
)

var (
	ErrProfileExists   = errors.New("profile_exists")
	ErrProfileNotFound = errors.New("profile_not_found")
)

// Profile form field names.
const (
	FieldProfilePhoto     = "profile_photo"
	FieldResume           = "resume"
	FieldSSCMarksheet     = "ssc_marksheet"
	FieldHSCMarksheet     = "hsc_marksheet"
	FieldDiplomaMarksheet = "diploma_marksheet"
)

var requiredProfileText = []string{
	"first_name", "last_name", "gender", "date_of_birth",
	"contact_number_primary", "email", "aadhaar_number",
	"current_year", "department", "year_of_admission", "expected_graduation_year",
	"ssc_percentage", "ssc_year",
}

var optionalProfileText = []string{
	"middle_name", "contact_number_alternate", "pan_number",
	"student_id", "student_id_number",
	"hsc_percentage", "hsc_year", "diploma_percentage", "diploma_year",
	"programming_languages", "soft_skills", "certifications",
	"projects", "achievements", "internships",
}

type ProfileService struct {
	Store store.Store
	Media *MediaService
	Now   func() time.Time
}

func (s *ProfileService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Schema is the multipart body of profile creation.
func (s *ProfileService) Schema() form.Schema {
	fields := make(map[string]form.Rule)
	for _, name := range requiredProfileText {
		fields[name] = form.Rule{Kind: form.KindText, Required: true}
	}
	for _, name := range optionalProfileText {
		fields[name] = form.Rule{Kind: form.KindText}
	}
	for i := 1; i <= domain.Semesters; i++ {
		fields[semesterField(i)] = form.Rule{Kind: form.KindText}
	}

	fields[FieldProfilePhoto] = s.Media.ImageRule(false)
	fields[FieldResume] = s.Media.ResumeRule()
	fields[FieldSSCMarksheet] = s.Media.MarksheetRule()
	fields[FieldHSCMarksheet] = s.Media.MarksheetRule()
	fields[FieldDiplomaMarksheet] = s.Media.MarksheetRule()

	return form.Schema{Fields: fields}
}

func semesterField(i int) string { return "sem" + strconv.Itoa(i) + "_cgpa" }

// CreateProfile stores the uploaded files, then inserts the profile and
// points the credential at the photo in one transaction.
func (s *ProfileService) CreateProfile(ctx context.Context, identifier string, f *form.Form) (domain.Profile, error) {
	l := slogx.FromContext(ctx)

	p, err := profileFromForm(identifier, f)
	if err != nil {
		return domain.Profile{}, err
	}

	// Checked before uploading so a repeat submission leaves no orphans.
	_, err = s.Store.Profiles().GetProfileByIdentifier(ctx, identifier)
	if err == nil {
		return domain.Profile{}, ErrProfileExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Profile{}, fmt.Errorf("load profile: %w", err)
	}

	uploads := []struct {
		field string
		kind  domain.MediaKind
		dst   *string
	}{
		{FieldProfilePhoto, domain.MediaProfile, &p.ProfilePhotoKey},
		{FieldResume, domain.MediaResume, &p.ResumeKey},
		{FieldSSCMarksheet, domain.MediaSSC, &p.SSC.MarksheetKey},
		{FieldHSCMarksheet, domain.MediaHSC, &p.HSC.MarksheetKey},
		{FieldDiplomaMarksheet, domain.MediaDiploma, &p.Diploma.MarksheetKey},
	}
	for _, u := range uploads {
		file, ok := f.File(u.field)
		if !ok {
			continue
		}
		key, err := s.Media.Save(ctx, u.kind, identifier, file)
		if err != nil {
			return domain.Profile{}, err
		}
		*u.dst = key
	}

	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		id, err := tx.Profiles().CreateProfile(ctx, p)
		if err != nil {
			return err
		}
		p.ID = id

		if p.ProfilePhotoKey == "" {
			return nil
		}
		return tx.Credentials().UpdateProfilePhotoKey(ctx, identifier, p.ProfilePhotoKey, now)
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.Profile{}, ErrProfileExists
	}
	if errors.Is(err, store.ErrNotFound) {
		return domain.Profile{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("create profile: %w", err)
	}

	l.Info("profile created", slog.String("identifier", identifier), slog.Int64("profile_id", p.ID))
	return p, nil
}

// GetProfile returns the profile of identifier.
func (s *ProfileService) GetProfile(ctx context.Context, identifier string) (domain.Profile, error) {
	p, err := s.Store.Profiles().GetProfileByIdentifier(ctx, identifier)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// UpdateContact rewrites the editable contact fields. First name, last
// name and email are required.
func (s *ProfileService) UpdateContact(ctx context.Context, identifier string, u domain.ContactUpdate) error {
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.MiddleName = strings.TrimSpace(u.MiddleName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.Email = strings.TrimSpace(u.Email)
	u.ContactPrimary = strings.TrimSpace(u.ContactPrimary)
	u.ContactAlternate = strings.TrimSpace(u.ContactAlternate)

	errs := make(map[string]string)
	if u.FirstName == "" {
		errs["first_name"] = "required"
	}
	if u.LastName == "" {
		errs["last_name"] = "required"
	}
	if u.Email == "" {
		errs["email"] = "required"
	} else if _, err := mail.ParseAddress(u.Email); err != nil {
		errs["email"] = "invalid email address"
	}
	if len(errs) > 0 {
		return &form.ValidationError{Fields: errs}
	}

	err := s.Store.Profiles().UpdateContact(ctx, identifier, u, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}

	slogx.FromContext(ctx).Info("profile contact updated", slog.String("identifier", identifier))
	return nil
}

// profileFromForm converts the text fields, collecting every conversion
// error into one ValidationError.
func profileFromForm(identifier string, f *form.Form) (domain.Profile, error) {
	errs := make(map[string]string)

	p := domain.Profile{
		Identifier:       identifier,
		FirstName:        f.Text("first_name"),
		MiddleName:       f.Text("middle_name"),
		LastName:         f.Text("last_name"),
		Gender:           f.Text("gender"),
		DateOfBirth:      f.Text("date_of_birth"),
		ContactPrimary:   f.Text("contact_number_primary"),
		ContactAlternate: f.Text("contact_number_alternate"),
		Email:            f.Text("email"),
		AadhaarNumber:    f.Text("aadhaar_number"),
		PANNumber:        f.Text("pan_number"),
		StudentID:        f.Text("student_id"),
		Department:       f.Text("department"),
	}
	if p.StudentID == "" {
		p.StudentID = f.Text("student_id_number")
	}

	if _, err := time.Parse(time.DateOnly, p.DateOfBirth); err != nil {
		errs["date_of_birth"] = "expected YYYY-MM-DD"
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		errs["email"] = "invalid email address"
	}

	p.CurrentYear = requiredInt(f, errs, "current_year", 1, 6)
	p.YearOfAdmission = requiredInt(f, errs, "year_of_admission", 1900, 2100)
	p.ExpectedGraduationYear = requiredInt(f, errs, "expected_graduation_year", 1900, 2100)

	p.SSC.Percentage = optionalFloat(f, errs, "ssc_percentage", 0, 100)
	p.SSC.Year = optionalInt(f, errs, "ssc_year", 1900, 2100)
	p.HSC.Percentage = optionalFloat(f, errs, "hsc_percentage", 0, 100)
	p.HSC.Year = optionalInt(f, errs, "hsc_year", 1900, 2100)
	p.Diploma.Percentage = optionalFloat(f, errs, "diploma_percentage", 0, 100)
	p.Diploma.Year = optionalInt(f, errs, "diploma_year", 1900, 2100)

	for i := range p.SemesterCGPA {
		p.SemesterCGPA[i] = optionalFloat(f, errs, semesterField(i+1), 0, 10)
	}

	p.ProgrammingLanguages = jsonList(f.Text("programming_languages"))
	p.SoftSkills = jsonList(f.Text("soft_skills"))
	p.Certifications = jsonList(f.Text("certifications"))
	p.Projects = jsonList(f.Text("projects"))
	p.Achievements = jsonList(f.Text("achievements"))
	p.Internships = jsonList(f.Text("internships"))

	if len(errs) > 0 {
		return domain.Profile{}, &form.ValidationError{Fields: errs}
	}
	return p, nil
}

func requiredInt(f *form.Form, errs map[string]string, name string, lo, hi int) int {
	v := optionalInt(f, errs, name, lo, hi)
	if v == nil {
		if _, failed := errs[name]; !failed {
			errs[name] = "required"
		}
		return 0
	}
	return *v
}

func optionalInt(f *form.Form, errs map[string]string, name string, lo, hi int) *int {
	raw := f.Text(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs[name] = "expected a whole number"
		return nil
	}
	if v < lo || v > hi {
		errs[name] = fmt.Sprintf("must be between %d and %d", lo, hi)
		return nil
	}
	return &v
}

func optionalFloat(f *form.Form, errs map[string]string, name string, lo, hi float64) *float64 {
	raw := f.Text(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs[name] = "expected a number"
		return nil
	}
	if v < lo || v > hi {
		errs[name] = fmt.Sprintf("must be between %g and %g", lo, hi)
		return nil
	}
	return &v
}

// jsonList normalises a list field. Valid JSON is compacted; anything
// else is kept as a JSON string. Blank input becomes an empty list.
func jsonList(raw string) json.RawMessage {
	if raw == "" {
		return domain.EmptyList
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err == nil {
		return buf.Bytes()
	}
	quoted, _ := json.Marshal(raw)
	return quoted
}
