package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tnp/pkg/cryptox"
	"github.com/aussiebroadwan/tnp/pkg/jwtx"
	"github.com/aussiebroadwan/tnp/pkg/slogx"
)

// AuthnMiddleware lets a request through only when it carries a bearer
// token v accepts. Rejected requests never reach next.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "invalid token")
				return
			}

			ctx = ContextWithClaims(ctx, claims)
			ctx = slogx.With(ctx, "user_id", claims.SubjectID(), "identifier", claims.Identifier)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// RequireToken guards admin routes with a static shared token sent in
// header. An empty expected token disables the route entirely (404).
func RequireToken(header, expected string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected == "" {
				WriteError(w, http.StatusNotFound, "not_found", "route disabled")
				return
			}
			if !cryptox.TokenMatches(r.Header.Get(header), expected) {
				slogx.FromContext(r.Context()).Warn("admin token rejected", "header", header)
				WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid admin token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
