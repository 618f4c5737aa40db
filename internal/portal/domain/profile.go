package domain

import (
	"encoding/json"
	"time"
)

// Semesters is the number of CGPA slots tracked per profile.
const Semesters = 8

// Profile is the full placement profile a student submits once.
type Profile struct {
	ID         int64
	Identifier string

	FirstName   string
	MiddleName  string
	LastName    string
	Gender      string
	DateOfBirth string

	ContactPrimary   string
	ContactAlternate string
	Email            string
	AadhaarNumber    string
	PANNumber        string
	StudentID        string

	CurrentYear            int
	Department             string
	YearOfAdmission        int
	ExpectedGraduationYear int

	SSC     Schooling
	HSC     Schooling
	Diploma Schooling

	SemesterCGPA [Semesters]*float64

	ProgrammingLanguages json.RawMessage
	SoftSkills           json.RawMessage
	Certifications       json.RawMessage
	Projects             json.RawMessage
	Achievements         json.RawMessage
	Internships          json.RawMessage

	ProfilePhotoKey string
	ResumeKey       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Schooling is one prior-education record. SSC is mandatory; HSC and
// diploma are optional so every field may be unset.
type Schooling struct {
	Percentage   *float64
	Year         *int
	MarksheetKey string
}

// ContactUpdate carries the fields a student may edit after creation.
type ContactUpdate struct {
	FirstName        string
	MiddleName       string
	LastName         string
	Email            string
	ContactPrimary   string
	ContactAlternate string
}

// EmptyList is stored for list fields the student left blank.
var EmptyList = json.RawMessage(`[]`)
