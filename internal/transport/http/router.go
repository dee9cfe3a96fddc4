// Package httptransport assembles the HTTP surface: feature handlers, admin
// gating, health and metrics.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "certledger/internal/auth/handler"
	insthandler "certledger/internal/institution/handler"
	verifhandler "certledger/internal/verification/handler"
	"certledger/pkg/platform/httputil"
	"certledger/pkg/platform/middleware/admin"
	"certledger/pkg/platform/middleware/request"
	"certledger/pkg/platform/middleware/requesttime"
)

// HealthChecker reports collaborator connectivity for /healthz.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Verification *verifhandler.Handler
	Institution  *insthandler.Handler
	Auth         *authhandler.Handler
	Ledger       HealthChecker
	AdminToken   string
	Logger       *slog.Logger
}

// NewRouter builds the chi router with the full endpoint surface.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)

	d.Verification.Register(r)
	d.Institution.RegisterPublic(r)
	d.Auth.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(d.AdminToken, d.Logger))
		d.Institution.RegisterAdmin(r)
	})

	r.Get("/healthz", handleHealth(d.Ledger))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

type healthResponse struct {
	Status          string `json:"status"`
	LedgerConnected bool   `json:"ledger_connected"`
}

func handleHealth(ledger HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", LedgerConnected: true}
		if err := ledger.Health(ctx); err != nil {
			resp.LedgerConnected = false
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}
