package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"certledger/internal/audit"
	authhandler "certledger/internal/auth/handler"
	authservice "certledger/internal/auth/service"
	authstore "certledger/internal/auth/store"
	insthandler "certledger/internal/institution/handler"
	instservice "certledger/internal/institution/service"
	inststore "certledger/internal/institution/store"
	jwttoken "certledger/internal/jwt_token"
	verifhandler "certledger/internal/verification/handler"
	verifservice "certledger/internal/verification/service"
	verifstore "certledger/internal/verification/store"
)

type fakeLedger struct {
	submitted map[string]bool
	healthErr error
}

func (f *fakeLedger) Submit(_ context.Context, id string) (string, error) {
	f.submitted[id] = true
	return "0xdeadbeef", nil
}

func (f *fakeLedger) IsSubmitted(_ context.Context, id string) (bool, error) {
	return f.submitted[id], nil
}

func (f *fakeLedger) Health(context.Context) error { return f.healthErr }

type fakeAssistant struct{}

func (fakeAssistant) Answer(_ context.Context, certificateID, _, _ string) string {
	return "about " + certificateID
}

const testAdminToken = "admin-secret"

func newTestRouter(t *testing.T, ledger *fakeLedger) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	publisher := audit.NewPublisher(audit.NewInMemoryStore(), logger)

	verifSvc := verifservice.New(
		ledger,
		fakeAssistant{},
		verifstore.NewInMemoryVerificationLog(),
		verifstore.NewInMemoryQuestionLog(),
		logger,
		nil,
	)
	instSvc := instservice.New(inststore.NewMemoryStore(), logger, nil, publisher)
	authSvc := authservice.New(
		authstore.NewMemoryUserStore(),
		instSvc,
		jwttoken.NewJWTService("test-key", "certledger"),
		time.Hour,
		logger,
		nil,
		publisher,
	)

	return NewRouter(Deps{
		Verification: verifhandler.New(verifSvc, logger),
		Institution:  insthandler.New(instSvc, logger),
		Auth:         authhandler.New(authSvc, logger),
		Ledger:       ledger,
		AdminToken:   testAdminToken,
		Logger:       logger,
	})
}

func do(router http.Handler, method, path, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t, &fakeLedger{submitted: map[string]bool{}})

	adminCalls := []struct{ method, path, body string }{
		{http.MethodGet, "/pending-institutions", ""},
		{http.MethodPost, "/approve-institution", `{"domain":"x.edu"}`},
		{http.MethodPost, "/reject-institution", `{"domain":"x.edu"}`},
	}
	for _, call := range adminCalls {
		if rec := do(router, call.method, call.path, "", call.body); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: expected 401, got %d", call.method, call.path, rec.Code)
		}
		if rec := do(router, call.method, call.path, "wrong-token", call.body); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s with bad token: expected 401, got %d", call.method, call.path, rec.Code)
		}
	}

	if rec := do(router, http.MethodGet, "/pending-institutions", testAdminToken, ""); rec.Code != http.StatusOK {
		t.Fatalf("with token: expected 200, got %d", rec.Code)
	}
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	router := newTestRouter(t, &fakeLedger{submitted: map[string]bool{}})

	rec := do(router, http.MethodPost, "/submit", "", `{"certificate_id":"CERT-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", rec.Code)
	}
	rec = do(router, http.MethodGet, "/institutions", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("institutions: expected 200, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	t.Run("ledger reachable", func(t *testing.T) {
		router := newTestRouter(t, &fakeLedger{submitted: map[string]bool{}})
		rec := do(router, http.MethodGet, "/healthz", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp healthResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if !resp.LedgerConnected {
			t.Fatal("expected ledger_connected true")
		}
	})

	t.Run("ledger down", func(t *testing.T) {
		router := newTestRouter(t, &fakeLedger{
			submitted: map[string]bool{},
			healthErr: errors.New("connection refused"),
		})
		rec := do(router, http.MethodGet, "/healthz", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp healthResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.LedgerConnected {
			t.Fatal("expected ledger_connected false")
		}
	})
}

func TestMetricsExposed(t *testing.T) {
	router := newTestRouter(t, &fakeLedger{submitted: map[string]bool{}})
	rec := do(router, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
