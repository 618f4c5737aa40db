package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/domain"
)

const profileColumns = `id, identifier,
	first_name, middle_name, last_name, gender, date_of_birth,
	contact_number_primary, contact_number_alternate, email,
	aadhaar_number, pan_number, student_id,
	current_year, department, year_of_admission, expected_graduation_year,
	ssc_percentage, ssc_year, ssc_marksheet_key,
	hsc_percentage, hsc_year, hsc_marksheet_key,
	diploma_percentage, diploma_year, diploma_marksheet_key,
	sem1_cgpa, sem2_cgpa, sem3_cgpa, sem4_cgpa,
	sem5_cgpa, sem6_cgpa, sem7_cgpa, sem8_cgpa,
	programming_languages, soft_skills, certifications, projects,
	achievements, internships,
	profile_photo_key, resume_key, created_at, updated_at`

type profilesRepo struct {
	q *Queries
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) (int64, error) {
	now := p.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	args := []any{
		p.Identifier,
		p.FirstName, mapStringNull(p.MiddleName), p.LastName, p.Gender, p.DateOfBirth,
		p.ContactPrimary, mapStringNull(p.ContactAlternate), p.Email,
		p.AadhaarNumber, mapStringNull(p.PANNumber), p.StudentID,
		p.CurrentYear, p.Department, p.YearOfAdmission, p.ExpectedGraduationYear,
		mapOptionalFloat(p.SSC.Percentage), mapOptionalInt(p.SSC.Year), mapStringNull(p.SSC.MarksheetKey),
		mapOptionalFloat(p.HSC.Percentage), mapOptionalInt(p.HSC.Year), mapStringNull(p.HSC.MarksheetKey),
		mapOptionalFloat(p.Diploma.Percentage), mapOptionalInt(p.Diploma.Year), mapStringNull(p.Diploma.MarksheetKey),
	}
	for _, cgpa := range p.SemesterCGPA {
		args = append(args, mapOptionalFloat(cgpa))
	}
	args = append(args,
		jsonText(p.ProgrammingLanguages), jsonText(p.SoftSkills), jsonText(p.Certifications),
		jsonText(p.Projects), jsonText(p.Achievements), jsonText(p.Internships),
		mapStringNull(p.ProfilePhotoKey), mapStringNull(p.ResumeKey), now, now,
	)

	var id int64
	err := r.q.queryRow(ctx, `
		INSERT INTO student_profiles (
			identifier,
			first_name, middle_name, last_name, gender, date_of_birth,
			contact_number_primary, contact_number_alternate, email,
			aadhaar_number, pan_number, student_id,
			current_year, department, year_of_admission, expected_graduation_year,
			ssc_percentage, ssc_year, ssc_marksheet_key,
			hsc_percentage, hsc_year, hsc_marksheet_key,
			diploma_percentage, diploma_year, diploma_marksheet_key,
			sem1_cgpa, sem2_cgpa, sem3_cgpa, sem4_cgpa,
			sem5_cgpa, sem6_cgpa, sem7_cgpa, sem8_cgpa,
			programming_languages, soft_skills, certifications, projects,
			achievements, internships,
			profile_photo_key, resume_key, created_at, updated_at
		) VALUES (
			?,
			?, ?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?,
			?, ?, ?, ?
		)
		RETURNING id`, args...,
	).Scan(&id)
	if err != nil {
		return 0, r.q.mapErr(err)
	}
	return id, nil
}

func (r *profilesRepo) GetProfileByIdentifier(ctx context.Context, identifier string) (domain.Profile, error) {
	row := r.q.queryRow(ctx, `SELECT `+profileColumns+` FROM student_profiles WHERE identifier = ?`, identifier)

	var (
		p                                          domain.Profile
		middle, alternate, pan                     sql.NullString
		sscPct, hscPct, dipPct                     sql.NullFloat64
		sscYear, hscYear, dipYear                  sql.NullInt64
		sscKey, hscKey, dipKey                     sql.NullString
		cgpa                                       [domain.Semesters]sql.NullFloat64
		langs, soft, certs, projs, ach, internship string
		photoKey, resumeKey                        sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Identifier,
		&p.FirstName, &middle, &p.LastName, &p.Gender, &p.DateOfBirth,
		&p.ContactPrimary, &alternate, &p.Email,
		&p.AadhaarNumber, &pan, &p.StudentID,
		&p.CurrentYear, &p.Department, &p.YearOfAdmission, &p.ExpectedGraduationYear,
		&sscPct, &sscYear, &sscKey,
		&hscPct, &hscYear, &hscKey,
		&dipPct, &dipYear, &dipKey,
		&cgpa[0], &cgpa[1], &cgpa[2], &cgpa[3],
		&cgpa[4], &cgpa[5], &cgpa[6], &cgpa[7],
		&langs, &soft, &certs, &projs, &ach, &internship,
		&photoKey, &resumeKey, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Profile{}, r.q.mapErr(err)
	}

	p.MiddleName = mapNullString(middle)
	p.ContactAlternate = mapNullString(alternate)
	p.PANNumber = mapNullString(pan)
	p.SSC = domain.Schooling{Percentage: mapNullFloatPtr(sscPct), Year: mapNullIntPtr(sscYear), MarksheetKey: mapNullString(sscKey)}
	p.HSC = domain.Schooling{Percentage: mapNullFloatPtr(hscPct), Year: mapNullIntPtr(hscYear), MarksheetKey: mapNullString(hscKey)}
	p.Diploma = domain.Schooling{Percentage: mapNullFloatPtr(dipPct), Year: mapNullIntPtr(dipYear), MarksheetKey: mapNullString(dipKey)}
	for i := range cgpa {
		p.SemesterCGPA[i] = mapNullFloatPtr(cgpa[i])
	}
	p.ProgrammingLanguages = json.RawMessage(langs)
	p.SoftSkills = json.RawMessage(soft)
	p.Certifications = json.RawMessage(certs)
	p.Projects = json.RawMessage(projs)
	p.Achievements = json.RawMessage(ach)
	p.Internships = json.RawMessage(internship)
	p.ProfilePhotoKey = mapNullString(photoKey)
	p.ResumeKey = mapNullString(resumeKey)

	return p, nil
}

func (r *profilesRepo) UpdateContact(
	ctx context.Context,
	identifier string,
	u domain.ContactUpdate,
	at time.Time,
) error {
	return r.q.execOne(ctx, `
		UPDATE student_profiles SET
			first_name = ?, middle_name = ?, last_name = ?, email = ?,
			contact_number_primary = ?, contact_number_alternate = ?,
			updated_at = ?
		WHERE identifier = ?`,
		u.FirstName, mapStringNull(u.MiddleName), u.LastName, u.Email,
		u.ContactPrimary, mapStringNull(u.ContactAlternate),
		at, identifier,
	)
}
