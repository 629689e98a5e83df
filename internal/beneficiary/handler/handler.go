package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cnr/internal/audit"
	"cnr/internal/beneficiary/models"
	"cnr/internal/nss"
	id "cnr/pkg/domain"
	"cnr/pkg/platform/httputil"
	"cnr/pkg/requestcontext"
)

// Service defines the interface for beneficiary operations.
type Service interface {
	Create(ctx context.Context, fullName string, pension float64, sim nss.Simulation) (*models.Beneficiary, error)
	Get(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error)
	List(ctx context.Context) ([]*models.Beneficiary, error)
	Events(ctx context.Context, beneficiaryID id.BeneficiaryID) ([]audit.Event, error)
}

// Handler serves enrolment and read endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the beneficiary routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/beneficiaries", h.handleCreate)
	r.Get("/beneficiaries", h.handleList)
	r.Get("/beneficiaries/{id}", h.handleGet)
	r.Get("/beneficiaries/{id}/events", h.handleEvents)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateBeneficiaryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	b, err := h.service.Create(ctx, req.FullName, req.PensionOrZero(), req.simulation)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create beneficiary",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, NewBeneficiaryResponse(b))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list beneficiaries",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	out := make([]BeneficiaryResponse, 0, len(list))
	for _, b := range list {
		out = append(out, NewBeneficiaryResponse(b))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	beneficiaryID, err := id.ParseBeneficiaryID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	b, err := h.service.Get(r.Context(), beneficiaryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NewBeneficiaryResponse(b))
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	beneficiaryID, err := id.ParseBeneficiaryID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.service.Events(r.Context(), beneficiaryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newEventResponses(events))
}
