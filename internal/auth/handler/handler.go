package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certledger/internal/auth/service"
	"certledger/pkg/platform/httputil"
	"certledger/pkg/requestcontext"
)

// Service defines the account operations the handler needs.
type Service interface {
	Register(ctx context.Context, in service.RegisterInput) error
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	ResetPassword(ctx context.Context, username, secretWord, newPassword string) error
}

// Handler wires account endpoints to the auth service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts account endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.HandleRegister)
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/reset-password", h.HandleResetPassword)
}

// HandleRegister handles POST /auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	err := h.service.Register(ctx, service.RegisterInput{
		Username:          req.Username,
		Password:          req.Password,
		Role:              req.Role,
		SecretWord:        req.SecretWord,
		Email:             req.Email,
		InstitutionDomain: req.InstitutionDomain,
		RoleCode:          req.RoleCode,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "registration failed",
			"request_id", requestID,
			"username", req.Username,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, MessageResponse{Message: "Registration successful"})
}

// HandleLogin handles POST /auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{
		Message:  "Login successful",
		Token:    result.Token,
		Username: result.Username,
		Role:     string(result.Role),
	})
}

// HandleResetPassword handles POST /auth/reset-password.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ResetPasswordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.ResetPassword(ctx, req.Username, req.Secret, req.NewPassword); err != nil {
		h.logger.ErrorContext(ctx, "password reset failed",
			"request_id", requestID,
			"username", req.Username,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password reset successful"})
}
