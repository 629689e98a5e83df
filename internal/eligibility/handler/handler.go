package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	beneficiaryhandler "cnr/internal/beneficiary/handler"
	"cnr/internal/beneficiary/models"
	id "cnr/pkg/domain"
	dErrors "cnr/pkg/domain-errors"
	"cnr/pkg/platform/httputil"
	"cnr/pkg/requestcontext"
)

// Auditor runs an eligibility audit.
type Auditor interface {
	RunAudit(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error)
}

// Handler exposes the audit over HTTP.
type Handler struct {
	auditor Auditor
	logger  *slog.Logger
}

func New(auditor Auditor, logger *slog.Logger) *Handler {
	return &Handler{auditor: auditor, logger: logger}
}

// Register mounts the audit on both POST and GET; GET is kept for callers
// that trigger audits from a browser.
func (h *Handler) Register(r chi.Router) {
	r.Post("/beneficiaries/{id}/audit", h.handleAudit)
	r.Get("/beneficiaries/{id}/audit", h.handleAudit)
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	beneficiaryID, err := id.ParseBeneficiaryID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	b, err := h.auditor.RunAudit(ctx, beneficiaryID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "audit failed",
				"request_id", requestID,
				"beneficiary_id", beneficiaryID.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, beneficiaryhandler.NewBeneficiaryResponse(b))
}
