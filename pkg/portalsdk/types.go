package portalsdk

import "encoding/json"

// ============================================================================
// Error Bodies
// ============================================================================

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ValidationErrorResponse lists field-level problems with a request.
type ValidationErrorResponse struct {
	// Code is always "validation_error".
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse is returned by endpoints with nothing else to say.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Authentication
// ============================================================================

// LoginRequest is the body of POST /v1/login.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResponse carries the access token. MustRotate tells the client the
// password was issued by provisioning and has to be changed.
type LoginResponse struct {
	Token      string `json:"token"`
	MustRotate bool   `json:"must_rotate"`
	Message    string `json:"message,omitempty"`
}

// ChangePasswordRequest is the body of POST /v1/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// RegisterRequest is the body of POST /v1/register.
type RegisterRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// ============================================================================
// Provisioning
// ============================================================================

// ProvisionRow is one student to create.
type ProvisionRow struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
}

// ProvisionRequest is the JSON body of POST /v1/admin/provision.
type ProvisionRequest struct {
	Rows []ProvisionRow `json:"rows"`
}

// ProvisionRowResult reports one input row. Status is "succeeded",
// "skipped" or "failed".
type ProvisionRowResult struct {
	Row        int    `json:"row"`
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

type ProvisionReport struct {
	Total     int                  `json:"total"`
	Succeeded int                  `json:"succeeded"`
	Skipped   int                  `json:"skipped"`
	Failed    int                  `json:"failed"`
	Rows      []ProvisionRowResult `json:"rows"`
}

// ============================================================================
// Student Profile
// ============================================================================

// UploadResponse is returned after a profile photo upload.
type UploadResponse struct {
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
}

type ProfileCreatedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Schooling is one prior-education record.
type Schooling struct {
	Percentage   *float64 `json:"percentage"`
	Year         *int     `json:"year"`
	MarksheetURL string   `json:"marksheet_url,omitempty"`
}

// Profile is the student's own profile as returned by GET /v1/student/profile.
type Profile struct {
	Identifier string `json:"identifier"`

	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name,omitempty"`
	LastName    string `json:"last_name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`

	ContactPrimary   string `json:"contact_number_primary"`
	ContactAlternate string `json:"contact_number_alternate,omitempty"`
	Email            string `json:"email"`
	AadhaarNumber    string `json:"aadhaar_number"`
	PANNumber        string `json:"pan_number,omitempty"`
	StudentID        string `json:"student_id,omitempty"`

	CurrentYear            int    `json:"current_year"`
	Department             string `json:"department"`
	YearOfAdmission        int    `json:"year_of_admission"`
	ExpectedGraduationYear int    `json:"expected_graduation_year"`

	SSC     Schooling `json:"ssc"`
	HSC     Schooling `json:"hsc"`
	Diploma Schooling `json:"diploma"`

	// SemesterCGPA has one slot per semester, null when not reported.
	SemesterCGPA []*float64 `json:"semester_cgpa"`

	ProgrammingLanguages json.RawMessage `json:"programming_languages" swaggertype:"array,string"`
	SoftSkills           json.RawMessage `json:"soft_skills" swaggertype:"array,string"`
	Certifications       json.RawMessage `json:"certifications" swaggertype:"array,object"`
	Projects             json.RawMessage `json:"projects" swaggertype:"array,object"`
	Achievements         json.RawMessage `json:"achievements" swaggertype:"array,object"`
	Internships          json.RawMessage `json:"internships" swaggertype:"array,object"`

	ProfilePhotoURL string `json:"profile_photo_url,omitempty"`
	ResumeURL       string `json:"resume_url,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ContactUpdateRequest is the body of PUT /v1/student/profile.
type ContactUpdateRequest struct {
	FirstName        string `json:"first_name"`
	MiddleName       string `json:"middle_name,omitempty"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	ContactPrimary   string `json:"contact_number_primary,omitempty"`
	ContactAlternate string `json:"contact_number_alternate,omitempty"`
}

// ============================================================================
// System
// ============================================================================

// HealthResponse is returned by /livez and /readyz. Checks is only set by
// /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency as "ok" or "error: ...".
type HealthChecks struct {
	Database string `json:"database"`
	Blobs    string `json:"blobs"`
}

type HelloResponse struct {
	Message string `json:"message"`
}
