package httpx

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSConfig lists what cross-origin callers may do.
type CORSConfig struct {
	AllowedOrigins []string // "*" allows any origin
	AllowedMethods []string
	AllowedHeaders []string
}

// DefaultCORS is the permissive policy used by the portal frontend.
func DefaultCORS() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Admin-Token", "X-Request-ID"},
	}
}

// CORS answers preflight requests with 204 and adds the Access-Control
// headers allowed by cfg to every other response.
func CORS(cfg CORSConfig) Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins:       cfg.AllowedOrigins,
		AllowedMethods:       cfg.AllowedMethods,
		AllowedHeaders:       cfg.AllowedHeaders,
		OptionsSuccessStatus: http.StatusNoContent,
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
