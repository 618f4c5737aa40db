package portalsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/aussiebroadwan/tnp/pkg/httpx"
)

// Error codes carried in the "error" field of error bodies.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeValidation           = "validation_error"
	ErrorCodeInvalidCredentials   = "invalid_credentials"
	ErrorCodeIdentifierNotFound   = "identifier_not_found"
	ErrorCodeOldPasswordIncorrect = "old_password_incorrect"
	ErrorCodeIdentifierExists     = "identifier_exists"
	ErrorCodeProfileExists        = "profile_exists"
	ErrorCodeNotFound             = "not_found"
	ErrorCodeUnauthorized         = "unauthorized"
	ErrorCodeServerError          = "server_error"
)

// APIError is an error answered by the portal. It is both written by the
// server and returned by the client.
type APIError struct {
	StatusCode  int               `json:"-"`
	Code        string            `json:"error"`
	Description string            `json:"error_description"`
	Details     map[string]string `json:"-"`
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	}

	fields := make([]string, 0, len(e.Details))
	for k, v := range e.Details {
		fields = append(fields, k+": "+v)
	}
	sort.Strings(fields)
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Description, strings.Join(fields, "; "))
}

// Is matches on status and code so callers can use errors.Is against the
// predefined errors.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WriteError writes e as a JSON error body. Errors with Details are
// written in the validation shape.
func (e *APIError) WriteError(w http.ResponseWriter) {
	if len(e.Details) > 0 {
		httpx.WriteJSON(w, e.StatusCode, ValidationErrorResponse{
			Code:    e.Code,
			Message: e.Description,
			Details: e.Details,
		})
		return
	}
	httpx.WriteError(w, e.StatusCode, e.Code, e.Description)
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required fields",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid credentials",
	}

	ErrIdentifierNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeIdentifierNotFound,
		Description: "identifier not found",
	}

	ErrOldPasswordIncorrect = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeOldPasswordIncorrect,
		Description: "old password is incorrect",
	}

	ErrIdentifierExists = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeIdentifierExists,
		Description: "identifier already registered",
	}

	ErrProfileExists = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeProfileExists,
		Description: "profile already exists",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthorized,
		Description: "invalid token",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewAPIError builds an error with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Description: description}
}

// NewValidationError builds a 400 listing field errors.
func NewValidationError(details map[string]string) *APIError {
	return &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeValidation,
		Description: "one or more fields are invalid",
		Details:     details,
	}
}

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        valErr.Code,
			Description: valErr.Message,
			Details:     valErr.Details,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
