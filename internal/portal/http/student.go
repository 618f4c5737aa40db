package http

import (
	"net/http"

	"github.com/aussiebroadwan/tnp/internal/portal/domain"
	"github.com/aussiebroadwan/tnp/internal/portal/service"
	"github.com/aussiebroadwan/tnp/pkg/httpx"
	"github.com/aussiebroadwan/tnp/pkg/portalsdk"
)

// maxUploadBody caps a whole multipart upload. Individual files are
// bounded by their schema rule.
const maxUploadBody = 64 << 20

type UploadPhotoHandler struct {
	MediaService *service.MediaService
}

// ServeHTTP godoc
//
//	@Summary		Upload Profile Photo
//	@Description	Store a profile picture (jpeg, png, webp or gif) and point the account at it.
//	@Tags			Student
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			profile	formData	file						true	"Profile picture"
//	@Success		200		{object}	portalsdk.UploadResponse	"message, image_url"
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse
//	@Failure		401		{object}	portalsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/student/upload [post].
func (h *UploadPhotoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		portalsdk.ErrUnauthorized.WriteError(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	defer cleanupMultipart(r)

	f, err := h.MediaService.PhotoSchema().Parse(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	photo, _ := f.File("profile")
	key, err := h.MediaService.UploadProfilePhoto(ctx, claims.Identifier, photo)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, portalsdk.UploadResponse{
		Message:  "profile picture uploaded successfully",
		ImageURL: h.MediaService.URL(key),
	})
}

type ProfileHandler struct {
	ProfileService *service.ProfileService
	MediaService   *service.MediaService
}

// HandleCreate godoc
//
//	@Summary		Create Profile
//	@Description	Submit the full placement profile once, as multipart form data. Text fields use their
//	@Description	snake_case names (first_name, ssc_percentage, sem1_cgpa ...). List fields take JSON.
//	@Description	Optional files: profile_photo, resume (PDF), ssc_marksheet, hsc_marksheet, diploma_marksheet (PDF or image).
//	@Tags			Student
//	@Accept			multipart/form-data
//	@Produce		json
//	@Success		201	{object}	portalsdk.ProfileCreatedResponse	"success, message"
//	@Failure		400	{object}	portalsdk.ValidationErrorResponse
//	@Failure		401	{object}	portalsdk.ErrorResponse
//	@Failure		409	{object}	portalsdk.ErrorResponse	"profile already exists"
//	@Security		BearerAuth
//	@Router			/v1/student/profile [post].
func (h *ProfileHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		portalsdk.ErrUnauthorized.WriteError(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	defer cleanupMultipart(r)

	f, err := h.ProfileService.Schema().Parse(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if _, err := h.ProfileService.CreateProfile(ctx, claims.Identifier, f); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, portalsdk.ProfileCreatedResponse{
		Success: true,
		Message: "full profile created successfully",
	})
}

// HandleGet godoc
//
//	@Summary		Get Profile
//	@Description	Return the caller's profile with public URLs for every stored file.
//	@Tags			Student
//	@Produce		json
//	@Success		200	{object}	portalsdk.Profile
//	@Failure		401	{object}	portalsdk.ErrorResponse
//	@Failure		404	{object}	portalsdk.ErrorResponse	"no profile yet"
//	@Security		BearerAuth
//	@Router			/v1/student/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		portalsdk.ErrUnauthorized.WriteError(w)
		return
	}

	p, err := h.ProfileService.GetProfile(ctx, claims.Identifier)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileResponse(p, h.MediaService.URL))
}

// HandleUpdate godoc
//
//	@Summary		Update Contact Details
//	@Description	Edit names, email and contact numbers. first_name, last_name and email are required.
//	@Tags			Student
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.ContactUpdateRequest	true	"Contact fields"
//	@Success		200		{object}	portalsdk.MessageResponse
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse
//	@Failure		401		{object}	portalsdk.ErrorResponse
//	@Failure		404		{object}	portalsdk.ErrorResponse	"no profile yet"
//	@Security		BearerAuth
//	@Router			/v1/student/profile [put].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		portalsdk.ErrUnauthorized.WriteError(w)
		return
	}

	var req portalsdk.ContactUpdateRequest
	if err := httpx.DecodeJSON(w, r, maxJSONBody, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	err := h.ProfileService.UpdateContact(ctx, claims.Identifier, domain.ContactUpdate{
		FirstName:        req.FirstName,
		MiddleName:       req.MiddleName,
		LastName:         req.LastName,
		Email:            req.Email,
		ContactPrimary:   req.ContactPrimary,
		ContactAlternate: req.ContactAlternate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, portalsdk.MessageResponse{Message: "profile updated successfully"})
}

func profileResponse(p domain.Profile, url func(string) string) portalsdk.Profile {
	cgpa := make([]*float64, len(p.SemesterCGPA))
	copy(cgpa, p.SemesterCGPA[:])

	schooling := func(s domain.Schooling) portalsdk.Schooling {
		return portalsdk.Schooling{
			Percentage:   s.Percentage,
			Year:         s.Year,
			MarksheetURL: url(s.MarksheetKey),
		}
	}

	return portalsdk.Profile{
		Identifier:             p.Identifier,
		FirstName:              p.FirstName,
		MiddleName:             p.MiddleName,
		LastName:               p.LastName,
		Gender:                 p.Gender,
		DateOfBirth:            p.DateOfBirth,
		ContactPrimary:         p.ContactPrimary,
		ContactAlternate:       p.ContactAlternate,
		Email:                  p.Email,
		AadhaarNumber:          p.AadhaarNumber,
		PANNumber:              p.PANNumber,
		StudentID:              p.StudentID,
		CurrentYear:            p.CurrentYear,
		Department:             p.Department,
		YearOfAdmission:        p.YearOfAdmission,
		ExpectedGraduationYear: p.ExpectedGraduationYear,
		SSC:                    schooling(p.SSC),
		HSC:                    schooling(p.HSC),
		Diploma:                schooling(p.Diploma),
		SemesterCGPA:           cgpa,
		ProgrammingLanguages:   orEmptyList(p.ProgrammingLanguages),
		SoftSkills:             orEmptyList(p.SoftSkills),
		Certifications:         orEmptyList(p.Certifications),
		Projects:               orEmptyList(p.Projects),
		Achievements:           orEmptyList(p.Achievements),
		Internships:            orEmptyList(p.Internships),
		ProfilePhotoURL:        url(p.ProfilePhotoKey),
		ResumeURL:              url(p.ResumeKey),
		CreatedAt:              p.CreatedAt.Unix(),
		UpdatedAt:              p.UpdatedAt.Unix(),
	}
}

func orEmptyList(raw []byte) []byte {
	if len(raw) == 0 {
		return domain.EmptyList
	}
	return raw
}

// cleanupMultipart removes temp files spilled by ParseMultipartForm.
func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
