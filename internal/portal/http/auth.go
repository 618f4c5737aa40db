package http

import (
	"net/http"

	"github.com/aussiebroadwan/tnp/internal/portal/service"
	"github.com/aussiebroadwan/tnp/pkg/httpx"
	"github.com/aussiebroadwan/tnp/pkg/portalsdk"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Exchange an identifier (GR number) and password for an HS256 access token.
//	@Description	must_rotate is true while the password is the one issued by provisioning.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	portalsdk.LoginResponse	"token, must_rotate"
//	@Failure		400		{object}	portalsdk.ErrorResponse	"missing fields"
//	@Failure		401		{object}	portalsdk.ErrorResponse	"invalid credentials"
//	@Failure		404		{object}	portalsdk.ErrorResponse	"identifier not found (only when revealing unknown identifiers)"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, maxJSONBody, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	msg := "login successful"
	if res.MustRotate {
		msg = "login successful, password change required"
	}
	httpx.WriteJSON(w, http.StatusOK, portalsdk.LoginResponse{
		Token:      res.Token,
		MustRotate: res.MustRotate,
		Message:    msg,
	})
}

type ChangePasswordHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Change Password
//	@Description	Replace the caller's password after checking the old one. Clears must_rotate. The current token stays valid.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.ChangePasswordRequest	true	"Old and new password"
//	@Success		200		{object}	portalsdk.MessageResponse		"message"
//	@Failure		400		{object}	portalsdk.ErrorResponse			"missing fields or weak password"
//	@Failure		401		{object}	portalsdk.ErrorResponse			"invalid token or old password"
//	@Security		BearerAuth
//	@Router			/v1/change-password [post].
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		portalsdk.ErrUnauthorized.WriteError(w)
		return
	}

	var req portalsdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(w, r, maxJSONBody, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	if err := h.AuthService.ChangePassword(ctx, claims, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, portalsdk.MessageResponse{Message: "password updated successfully"})
}

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Register
//	@Description	Create a self-service account. The chosen password does not need rotating.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.RegisterRequest	true	"Account"
//	@Success		201		{object}	portalsdk.RegisterResponse	"message, id"
//	@Failure		400		{object}	portalsdk.ErrorResponse		"missing fields, bad email or short password"
//	@Failure		409		{object}	portalsdk.ErrorResponse		"identifier already registered"
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, maxJSONBody, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	id, err := h.AuthService.Register(r.Context(), req.Identifier, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, portalsdk.RegisterResponse{
		Message: "user registered successfully",
		ID:      id,
	})
}
