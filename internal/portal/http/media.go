package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/tnp/internal/portal/service"
	"github.com/aussiebroadwan/tnp/pkg/slogx"
)

// mediaCacheControl lets clients and proxies keep objects for a year.
// Keys embed a random id so stored objects never change.
const mediaCacheControl = "public, max-age=31536000"

type MediaHandler struct {
	MediaService *service.MediaService
}

// ServeHTTP godoc
//
//	@Summary		Download Media
//	@Description	Stream a stored upload. kind is one of profile, resume, ssc, hsc, diploma.
//	@Tags			Media
//	@Produce		application/octet-stream
//	@Param			kind		path		string	true	"Media kind"
//	@Param			filename	path		string	true	"Object file name"
//	@Success		200			{file}		binary
//	@Failure		404			{object}	portalsdk.ErrorResponse
//	@Router			/media/{kind}/{filename} [get].
func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	obj, err := h.MediaService.Open(r.Context(), r.PathValue("kind"), r.PathValue("filename"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Cache-Control", mediaCacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if obj.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, obj.Body); err != nil {
		slogx.FromContext(r.Context()).Warn("media stream interrupted", "error", err)
	}
}
