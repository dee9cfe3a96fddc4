package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certledger/internal/institution/models"
	"certledger/internal/institution/service"
	"certledger/pkg/platform/httputil"
	"certledger/pkg/requestcontext"
)

// Service defines the onboarding operations the handler needs.
type Service interface {
	Request(ctx context.Context, req models.PendingRequest) error
	Approve(ctx context.Context, domain string) (*models.Institution, error)
	Reject(ctx context.Context, domain string) error
	ListPending(ctx context.Context) ([]models.PendingRequest, error)
	ListApproved(ctx context.Context) ([]models.Institution, error)
}

var _ Service = (*service.Service)(nil)

// Handler wires onboarding endpoints to the institution service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the endpoints anyone may call.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/institution-request", h.HandleRequest)
	r.Get("/institutions", h.HandleListApproved)
}

// RegisterAdmin mounts the operator endpoints. The caller is expected to
// guard the router with admin authentication.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/pending-institutions", h.HandleListPending)
	r.Post("/approve-institution", h.HandleApprove)
	r.Post("/reject-institution", h.HandleReject)
}

// HandleRequest handles POST /institution-request.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RequestInstitutionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	err := h.service.Request(ctx, models.PendingRequest{
		Name:    req.Name,
		Domain:  req.Domain,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "institution request failed",
			"request_id", requestID,
			"domain", req.Domain,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, RequestedResponse{
		Message: "Institution request received.",
	})
}

// HandleApprove handles POST /approve-institution.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DecideInstitutionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	inst, err := h.service.Approve(ctx, req.Domain)
	if err != nil {
		h.logger.ErrorContext(ctx, "institution approval failed",
			"request_id", requestID,
			"domain", req.Domain,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DecisionResponse{
		Message: "Institution approved.",
		Code:    inst.Code,
	})
}

// HandleReject handles POST /reject-institution.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DecideInstitutionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Reject(ctx, req.Domain); err != nil {
		h.logger.ErrorContext(ctx, "institution rejection failed",
			"request_id", requestID,
			"domain", req.Domain,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DecisionResponse{
		Message: "Institution request rejected.",
	})
}

// HandleListPending handles GET /pending-institutions.
func (h *Handler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pending, err := h.service.ListPending(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "pending institution listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if pending == nil {
		pending = []models.PendingRequest{}
	}
	httputil.WriteJSON(w, http.StatusOK, pending)
}

// HandleListApproved handles GET /institutions.
func (h *Handler) HandleListApproved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	insts, err := h.service.ListApproved(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "institution listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	views := make([]InstitutionView, 0, len(insts))
	for _, inst := range insts {
		views = append(views, InstitutionView{Name: inst.Name, Domain: inst.Domain})
	}
	httputil.WriteJSON(w, http.StatusOK, views)
}
