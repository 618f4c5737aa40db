package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/blob"
	"github.com/aussiebroadwan/tnp/internal/portal/store"
	"github.com/aussiebroadwan/tnp/pkg/httpx"
	"github.com/aussiebroadwan/tnp/pkg/portalsdk"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe endpoint returning basic service health status, uptime, and version information
//	@Description	This endpoint always returns 200 OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	portalsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, portalsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database and the object store
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	portalsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	portalsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, blobs blob.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &portalsdk.HealthChecks{
			Database: "ok",
			Blobs:    "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if err := blobs.Ping(r.Context()); err != nil {
			checks.Blobs = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, portalsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

// HelloHandler godoc
//
//	@Summary		Greeting
//	@Description	Smoke test route
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	portalsdk.HelloResponse
//	@Router			/v1/hello [get].
func HelloHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, portalsdk.HelloResponse{Message: "Hello from the TnP portal"})
	}
}
