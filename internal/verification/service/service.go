// Package service coordinates certificate submission and verification against
// the external ledger, with the verification log acting as a positive,
// never-invalidated cache.
package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"certledger/internal/assistant"
	"certledger/internal/ledger"
	"certledger/internal/verification/metrics"
	"certledger/internal/verification/models"
	"certledger/internal/verification/store"
	dErrors "certledger/pkg/domain-errors"
	"certledger/pkg/requestcontext"
)

// Service orchestrates the four verification-side operations. All methods are
// synchronous and single-request-scoped.
type Service struct {
	ledger        ledger.Client
	assistant     assistant.Answerer
	verifications store.VerificationLogStore
	questions     store.QuestionLogStore
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

func New(
	ledgerClient ledger.Client,
	answerer assistant.Answerer,
	verifications store.VerificationLogStore,
	questions store.QuestionLogStore,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		ledger:        ledgerClient,
		assistant:     answerer,
		verifications: verifications,
		questions:     questions,
		logger:        logger,
		metrics:       m,
	}
}

// SubmitResult is the outcome of a submission attempt.
type SubmitResult struct {
	AlreadyOnChain bool
	TxRef          string
}

// Submit registers a certificate on the ledger unless it already exists.
// Existence is always re-derived from the ledger rather than tracked locally,
// so a retried submission stays an idempotent no-op.
func (s *Service) Submit(ctx context.Context, certificateID string) (*SubmitResult, error) {
	certificateID = strings.TrimSpace(certificateID)
	if certificateID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "certificate_id is required")
	}

	start := time.Now()
	exists, err := s.ledger.IsSubmitted(ctx, certificateID)
	s.metrics.ObserveLedgerLatency(time.Since(start).Seconds())
	if err != nil {
		s.metrics.IncSubmission(metrics.OutcomeLedgerError)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "ledger existence check failed")
	}
	if exists {
		s.metrics.IncSubmission(metrics.OutcomeAlreadyOnChain)
		return &SubmitResult{AlreadyOnChain: true}, nil
	}

	txRef, err := s.ledger.Submit(ctx, certificateID)
	if err != nil {
		s.metrics.IncSubmission(metrics.OutcomeLedgerError)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "ledger submission failed")
	}

	s.logger.InfoContext(ctx, "certificate submitted",
		"request_id", requestcontext.RequestID(ctx),
		"certificate_id", certificateID,
		"tx_ref", txRef,
	)
	s.metrics.IncSubmission(metrics.OutcomeSubmitted)
	return &SubmitResult{TxRef: txRef}, nil
}

// Verify checks a certificate for a user. Strict order, each step
// short-circuits: the verification log first (trust-without-reverify), then
// the ledger, then a log append for non-guest users.
//
// Logging is strict audit: if the log append fails after a ledger hit, the
// whole call fails even though the ledger said the certificate exists. The
// alternative (eventual audit) would silently lose the cache entry and the
// audit row together.
func (s *Service) Verify(ctx context.Context, username, certificateID string) (models.VerificationStatus, error) {
	certificateID = strings.TrimSpace(certificateID)
	if certificateID == "" {
		return "", dErrors.New(dErrors.CodeValidation, "certificate_id is required")
	}
	if strings.TrimSpace(username) == "" {
		username = models.GuestUsername
	}

	cached, err := s.verifications.Exists(ctx, username, certificateID)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "verification log lookup failed")
	}
	if cached {
		s.metrics.IncVerification(metrics.ResultCacheHit)
		return models.StatusVerified, nil
	}

	start := time.Now()
	exists, err := s.ledger.IsSubmitted(ctx, certificateID)
	s.metrics.ObserveLedgerLatency(time.Since(start).Seconds())
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "ledger existence check failed")
	}
	if !exists {
		s.metrics.IncVerification(metrics.ResultNotFound)
		return models.StatusNotFound, nil
	}

	if !strings.EqualFold(username, models.GuestUsername) {
		entry := models.VerificationLogEntry{
			Username:      username,
			CertificateID: certificateID,
			Timestamp:     requestcontext.Now(ctx).UTC(),
		}
		if err := s.verifications.Append(ctx, entry); err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "verification logging failed")
		}
	}

	s.metrics.IncVerification(metrics.ResultLedgerHit)
	return models.StatusVerified, nil
}

// History merges verification and question log entries for a user into one
// finite snapshot sorted by timestamp descending. Both logs are fetched
// concurrently; ties keep a stable order.
func (s *Service) History(ctx context.Context, username string) ([]models.HistoryEntry, error) {
	if strings.TrimSpace(username) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "username is required")
	}

	var (
		verified  []models.VerificationLogEntry
		questions []models.QuestionLogEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		verified, err = s.verifications.ListByUser(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = s.questions.ListByUser(gctx, username)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "history lookup failed")
	}

	entries := make([]models.HistoryEntry, 0, len(verified)+len(questions))
	for _, v := range verified {
		entries = append(entries, models.HistoryEntry{
			Kind:          models.KindVerification,
			Username:      v.Username,
			CertificateID: v.CertificateID,
			Timestamp:     models.FormatTimestamp(v.Timestamp),
		})
	}
	for _, q := range questions {
		entries = append(entries, models.HistoryEntry{
			Kind:          models.KindQuestion,
			Username:      q.Username,
			CertificateID: q.CertificateID,
			Question:      q.Question,
			Answer:        q.Answer,
			Lang:          q.Lang,
			Timestamp:     models.FormatTimestamp(q.Timestamp),
		})
	}

	// RFC3339 UTC strings compare lexicographically in chronological order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	return entries, nil
}

// Ask delegates the question verbatim to the AI collaborator and records the
// exchange. Question logging is best-effort: a failed append never blocks
// returning the answer.
func (s *Service) Ask(ctx context.Context, username, certificateID, question, lang string) (string, error) {
	certificateID = strings.TrimSpace(certificateID)
	question = strings.TrimSpace(question)
	if certificateID == "" || question == "" {
		return "", dErrors.New(dErrors.CodeValidation, "certificate_id and question are required")
	}
	if lang != assistant.LangTurkish {
		lang = assistant.LangEnglish
	}
	if strings.TrimSpace(username) == "" {
		username = models.AnonymousUsername
	}

	answer := s.assistant.Answer(ctx, certificateID, question, lang)
	s.metrics.IncQuestion()

	entry := models.QuestionLogEntry{
		Username:      username,
		CertificateID: certificateID,
		Question:      question,
		Lang:          lang,
		Answer:        answer,
		Timestamp:     requestcontext.Now(ctx).UTC(),
	}
	if err := s.questions.Append(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "question logging failed",
			"request_id", requestcontext.RequestID(ctx),
			"certificate_id", certificateID,
			"error", err,
		)
	}
	return answer, nil
}
