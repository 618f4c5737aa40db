package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tnp/internal/portal/form"
	"github.com/aussiebroadwan/tnp/internal/portal/service"
	"github.com/aussiebroadwan/tnp/pkg/portalsdk"
	"github.com/aussiebroadwan/tnp/pkg/slogx"
)

// maxJSONBody caps every JSON request body.
const maxJSONBody = 1 << 20

// writeServiceError maps service and validation errors to responses.
// Anything unrecognised is logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		portalsdk.NewValidationError(verr.Fields).WriteError(w)
		return
	}

	switch {
	case errors.Is(err, service.ErrMissingFields):
		portalsdk.NewAPIError(http.StatusBadRequest, portalsdk.ErrorCodeInvalidRequest, "missing required fields").WriteError(w)
	case errors.Is(err, service.ErrPasswordTooShort):
		portalsdk.NewAPIError(http.StatusBadRequest, portalsdk.ErrorCodeInvalidRequest, "password is too short").WriteError(w)
	case errors.Is(err, service.ErrPasswordTooLong):
		portalsdk.NewAPIError(http.StatusBadRequest, portalsdk.ErrorCodeInvalidRequest, "password is too long").WriteError(w)
	case errors.Is(err, service.ErrPasswordUnchanged):
		portalsdk.NewAPIError(http.StatusBadRequest, portalsdk.ErrorCodeInvalidRequest, "new password must differ from the old one").WriteError(w)
	case errors.Is(err, service.ErrInvalidIdentifier):
		portalsdk.NewAPIError(http.StatusBadRequest, portalsdk.ErrorCodeInvalidRequest, "identifier must not contain path separators").WriteError(w)
	case errors.Is(err, service.ErrInvalidEmail):
		portalsdk.NewAPIError(http.StatusBadRequest, portalsdk.ErrorCodeInvalidRequest, "invalid email address").WriteError(w)
	case errors.Is(err, service.ErrInvalidCSV):
		portalsdk.NewAPIError(http.StatusBadRequest, portalsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		portalsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrIdentifierNotFound):
		portalsdk.ErrIdentifierNotFound.WriteError(w)
	case errors.Is(err, service.ErrOldPasswordIncorrect):
		portalsdk.ErrOldPasswordIncorrect.WriteError(w)
	case errors.Is(err, service.ErrIdentifierExists):
		portalsdk.ErrIdentifierExists.WriteError(w)
	case errors.Is(err, service.ErrProfileExists):
		portalsdk.ErrProfileExists.WriteError(w)
	case errors.Is(err, service.ErrProfileNotFound):
		portalsdk.NewAPIError(http.StatusNotFound, portalsdk.ErrorCodeNotFound, "profile not found").WriteError(w)
	case errors.Is(err, service.ErrMediaNotFound):
		portalsdk.NewAPIError(http.StatusNotFound, portalsdk.ErrorCodeNotFound, "file not found").WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		portalsdk.ErrServerError.WriteError(w)
	}
}

// writeBadJSON answers a body that could not be decoded.
func writeBadJSON(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		portalsdk.NewAPIError(http.StatusRequestEntityTooLarge, portalsdk.ErrorCodeInvalidRequest, "request body too large").WriteError(w)
		return
	}
	portalsdk.NewAPIError(http.StatusBadRequest, portalsdk.ErrorCodeInvalidRequest, "invalid JSON body").WriteError(w)
}
