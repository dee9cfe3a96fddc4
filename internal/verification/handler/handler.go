package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"certledger/internal/verification/models"
	"certledger/internal/verification/service"
	"certledger/pkg/platform/httputil"
	"certledger/pkg/requestcontext"
)

// Service defines the verification operations the handler needs.
type Service interface {
	Submit(ctx context.Context, certificateID string) (*service.SubmitResult, error)
	Verify(ctx context.Context, username, certificateID string) (models.VerificationStatus, error)
	History(ctx context.Context, username string) ([]models.HistoryEntry, error)
	Ask(ctx context.Context, username, certificateID, question, lang string) (string, error)
}

// Handler wires certificate endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a verification handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/submit", h.HandleSubmit)
	r.Post("/verify", h.HandleVerify)
	r.Post("/ask-ai", h.HandleAsk)
	r.Post("/verifier-history", h.HandleHistory)
}

// HandleSubmit handles POST /submit requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Submit(ctx, req.CertificateID)
	if err != nil {
		h.logger.ErrorContext(ctx, "certificate submission failed",
			"request_id", requestID,
			"certificate_id", req.CertificateID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if result.AlreadyOnChain {
		httputil.WriteJSON(w, http.StatusOK, SubmitResponse{
			Message: "Certificate already submitted.",
			OnChain: true,
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SubmitResponse{
		Message: "Certificate submitted successfully.",
		TxHash:  result.TxRef,
	})
}

// HandleVerify handles POST /verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	status, err := h.service.Verify(ctx, req.Username, req.CertificateID)
	if err != nil {
		h.logger.ErrorContext(ctx, "certificate verification failed",
			"request_id", requestID,
			"certificate_id", req.CertificateID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "certificate verified",
		"request_id", requestID,
		"certificate_id", req.CertificateID,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if status == models.StatusNotFound {
		httputil.WriteJSON(w, http.StatusNotFound, VerifyResponse{Status: string(status)})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, VerifyResponse{Status: string(status)})
}

// HandleAsk handles POST /ask-ai requests.
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AskRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	answer, err := h.service.Ask(ctx, req.Username, req.CertificateID, req.Question, req.Lang)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AskResponse{Answer: answer})
}

// HandleHistory handles POST /verifier-history requests.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[HistoryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entries, err := h.service.History(ctx, req.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "history lookup failed",
			"request_id", requestID,
			"username", req.Username,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}
