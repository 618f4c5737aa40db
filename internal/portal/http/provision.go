package http

import (
	"errors"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/tnp/internal/portal/domain"
	"github.com/aussiebroadwan/tnp/internal/portal/service"
	"github.com/aussiebroadwan/tnp/pkg/httpx"
	"github.com/aussiebroadwan/tnp/pkg/portalsdk"
)

// maxProvisionBody caps provisioning uploads, JSON or CSV.
const maxProvisionBody = 4 << 20

type ProvisionHandler struct {
	ProvisioningService *service.ProvisioningService
}

// ServeHTTP godoc
//
//	@Summary		Bulk Provisioning
//	@Description	Create one account per row with a generated password and email the credentials.
//	@Description	Rows are processed in order; one failing row never stops the rest. Accounts created here must rotate their password.
//	@Description	The body is either JSON or text/csv with a header naming identifier (or gr_number) and email.
//	@Tags			Admin
//	@Accept			json
//	@Accept			text/csv
//	@Produce		json
//	@Param			X-Admin-Token	header		string						true	"Admin token"
//	@Param			request			body		portalsdk.ProvisionRequest	true	"Rows to provision"
//	@Success		200				{object}	portalsdk.ProvisionReport	"per-row outcomes"
//	@Failure		400				{object}	portalsdk.ErrorResponse		"unreadable body"
//	@Failure		401				{object}	portalsdk.ErrorResponse		"invalid admin token"
//	@Failure		413				{object}	portalsdk.ErrorResponse		"body too large"
//	@Failure		404				{object}	portalsdk.ErrorResponse		"provisioning disabled"
//	@Router			/v1/admin/provision [post].
func (h *ProvisionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rows, err := readProvisionRows(w, r)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeBadJSON(w, err)
		return
	case errors.Is(err, service.ErrInvalidCSV):
		writeServiceError(w, r, err)
		return
	case err != nil:
		writeBadJSON(w, err)
		return
	}
	if len(rows) == 0 {
		portalsdk.NewAPIError(http.StatusBadRequest, portalsdk.ErrorCodeInvalidRequest, "no rows to provision").WriteError(w)
		return
	}

	report := h.ProvisioningService.Provision(r.Context(), rows)
	httpx.WriteJSON(w, http.StatusOK, reportResponse(report))
}

func readProvisionRows(w http.ResponseWriter, r *http.Request) ([]domain.ProvisionRow, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "text/csv", "application/csv":
		r.Body = http.MaxBytesReader(w, r.Body, maxProvisionBody)
		return service.ParseProvisionCSV(r.Body)
	default:
		var req portalsdk.ProvisionRequest
		if err := httpx.DecodeJSON(w, r, maxProvisionBody, &req); err != nil {
			return nil, err
		}
		rows := make([]domain.ProvisionRow, len(req.Rows))
		for i, row := range req.Rows {
			rows[i] = domain.ProvisionRow{Identifier: row.Identifier, Email: row.Email}
		}
		return rows, nil
	}
}

func reportResponse(rep domain.Report) portalsdk.ProvisionReport {
	out := portalsdk.ProvisionReport{
		Total:     rep.Total,
		Succeeded: rep.Succeeded,
		Skipped:   rep.Skipped,
		Failed:    rep.Failed,
		Rows:      make([]portalsdk.ProvisionRowResult, len(rep.Rows)),
	}
	for i, row := range rep.Rows {
		out.Rows[i] = portalsdk.ProvisionRowResult{
			Row:        row.Row,
			Identifier: row.Identifier,
			Email:      row.Email,
			Status:     row.Outcome.Status(),
			Reason:     domain.Reason(row.Outcome),
		}
	}
	return out
}
