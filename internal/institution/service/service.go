// Package service implements the institution onboarding state machine:
// self-service registration requests, operator approval and rejection, and
// registrar code checks for approved institutions.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"certledger/internal/audit"
	"certledger/internal/institution/metrics"
	"certledger/internal/institution/models"
	"certledger/internal/institution/store"
	dErrors "certledger/pkg/domain-errors"
	"certledger/pkg/platform/sentinel"
	"certledger/pkg/requestcontext"
)

type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
	newCode store.CodeFunc
}

func New(st store.Store, logger *slog.Logger, m *metrics.Metrics, publisher *audit.Publisher) *Service {
	return &Service{
		store:   st,
		logger:  logger,
		metrics: m,
		audit:   publisher,
		newCode: models.NewRegistrarCode,
	}
}

// Request records a registration request. Multiple requests for the same
// domain are accepted; uniqueness is only enforced when one of them is
// approved.
func (s *Service) Request(ctx context.Context, req models.PendingRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Domain = strings.TrimSpace(req.Domain)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Domain == "" || req.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "name, domain and email are required")
	}

	if err := s.store.AppendPending(ctx, req); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "recording registration request failed")
	}

	s.metrics.IncRequest()
	s.audit.Emit(ctx, audit.Event{
		Actor:     req.Email,
		Action:    audit.ActionInstitutionRequested,
		Subject:   req.Domain,
		Detail:    req.Name,
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "institution registration requested",
		"request_id", requestcontext.RequestID(ctx),
		"domain", req.Domain,
	)
	return nil
}

// Approve converts the oldest pending request for domain into an approved
// institution. The store executes the whole sequence in one critical section,
// so two concurrent approvals of the same domain cannot both succeed.
func (s *Service) Approve(ctx context.Context, domain string) (*models.Institution, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "domain is required")
	}

	inst, err := s.store.ApproveDomain(ctx, domain, s.newCode)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			s.metrics.IncDecision(metrics.DecisionNotFound)
			return nil, dErrors.New(dErrors.CodeNotFound, "no pending request for domain")
		case errors.Is(err, sentinel.ErrConflict):
			s.metrics.IncDecision(metrics.DecisionConflict)
			return nil, dErrors.New(dErrors.CodeConflict, "an institution with this name or domain already exists")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "approval failed")
		}
	}

	s.metrics.IncDecision(metrics.DecisionApproved)
	s.audit.Emit(ctx, audit.Event{
		Action:    audit.ActionInstitutionApproved,
		Subject:   inst.Domain,
		Detail:    inst.Name,
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "institution approved",
		"request_id", requestcontext.RequestID(ctx),
		"domain", inst.Domain,
		"name", inst.Name,
	)
	return inst, nil
}

// Reject removes every pending request for domain. Rejecting a domain with
// no pending requests is a no-op so retried rejections stay idempotent.
func (s *Service) Reject(ctx context.Context, domain string) error {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return dErrors.New(dErrors.CodeValidation, "domain is required")
	}

	removed, err := s.store.RemovePending(ctx, domain)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "rejection failed")
	}
	if removed == 0 {
		return nil
	}

	s.metrics.IncDecision(metrics.DecisionRejected)
	s.audit.Emit(ctx, audit.Event{
		Action:    audit.ActionInstitutionRejected,
		Subject:   domain,
		Detail:    fmt.Sprintf("removed %d pending request(s)", removed),
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "institution rejected",
		"request_id", requestcontext.RequestID(ctx),
		"domain", domain,
		"removed", removed,
	)
	return nil
}

func (s *Service) ListPending(ctx context.Context) ([]models.PendingRequest, error) {
	reqs, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing pending requests failed")
	}
	return reqs, nil
}

func (s *Service) ListApproved(ctx context.Context) ([]models.Institution, error) {
	insts, err := s.store.ListApproved(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing institutions failed")
	}
	return insts, nil
}

// AuthorizeRegistrar checks that email belongs to the institution's domain
// and that code matches the institution's registrar code exactly. Used by
// account registration for the registrar role.
func (s *Service) AuthorizeRegistrar(ctx context.Context, email, domain, code string) error {
	email = strings.TrimSpace(email)
	domain = strings.TrimSpace(domain)
	if domain == "" || code == "" {
		return dErrors.New(dErrors.CodeValidation, "institution_domain and institution_code are required")
	}
	if !strings.HasSuffix(email, "@"+domain) {
		return dErrors.New(dErrors.CodeValidation, "email does not belong to the institution domain")
	}

	inst, err := s.store.FindApprovedByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeValidation, "institution not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "institution lookup failed")
	}
	if inst.Code != code {
		return dErrors.New(dErrors.CodeForbidden, "invalid institution code")
	}

	s.metrics.IncRegistrar()
	return nil
}
