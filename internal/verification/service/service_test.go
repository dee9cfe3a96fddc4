package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certledger/internal/verification/models"
	"certledger/internal/verification/store"
	dErrors "certledger/pkg/domain-errors"
	"certledger/pkg/requestcontext"
)

// fakeLedger tracks call counts so tests can assert how often the chain was
// actually consulted.
type fakeLedger struct {
	submitted    map[string]bool
	submitCalls  int
	existsCalls  int
	submitErr    error
	existsErr    error
	existsAnswer *bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{submitted: map[string]bool{}}
}

func (f *fakeLedger) Submit(_ context.Context, certificateID string) (string, error) {
	f.submitCalls++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted[certificateID] = true
	return "0xtx-" + certificateID, nil
}

func (f *fakeLedger) IsSubmitted(_ context.Context, certificateID string) (bool, error) {
	f.existsCalls++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.existsAnswer != nil {
		return *f.existsAnswer, nil
	}
	return f.submitted[certificateID], nil
}

func (f *fakeLedger) Health(context.Context) error { return nil }

type fakeAssistant struct {
	lastLang string
}

func (f *fakeAssistant) Answer(_ context.Context, certificateID, question, lang string) string {
	f.lastLang = lang
	return "answer about " + certificateID
}

type failingVerificationLog struct {
	store.VerificationLogStore
	appendErr error
}

func (f *failingVerificationLog) Append(ctx context.Context, entry models.VerificationLogEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	return f.VerificationLogStore.Append(ctx, entry)
}

type failingQuestionLog struct {
	store.QuestionLogStore
	appendErr error
}

func (f *failingQuestionLog) Append(ctx context.Context, entry models.QuestionLogEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	return f.QuestionLogStore.Append(ctx, entry)
}

type fixture struct {
	svc           *Service
	ledger        *fakeLedger
	assistant     *fakeAssistant
	verifications store.VerificationLogStore
	questions     store.QuestionLogStore
}

func newFixture(opts ...func(*fixture)) *fixture {
	f := &fixture{
		ledger:        newFakeLedger(),
		assistant:     &fakeAssistant{},
		verifications: store.NewInMemoryVerificationLog(),
		questions:     store.NewInMemoryQuestionLog(),
	}
	for _, opt := range opts {
		opt(f)
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	f.svc = New(f.ledger, f.assistant, f.verifications, f.questions, logger, nil)
	return f
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty certificate id", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Submit(ctx, "  ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("submits once then reports on-chain", func(t *testing.T) {
		f := newFixture()

		first, err := f.svc.Submit(ctx, "CERT-1")
		require.NoError(t, err)
		assert.False(t, first.AlreadyOnChain)
		assert.Equal(t, "0xtx-CERT-1", first.TxRef)

		second, err := f.svc.Submit(ctx, "CERT-1")
		require.NoError(t, err)
		assert.True(t, second.AlreadyOnChain)
		assert.Empty(t, second.TxRef)

		assert.Equal(t, 1, f.ledger.submitCalls, "exactly one ledger submission")
	})

	t.Run("wraps ledger failures as unavailable", func(t *testing.T) {
		f := newFixture()
		f.ledger.submitErr = errors.New("insufficient funds")

		_, err := f.svc.Submit(ctx, "CERT-1")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	t.Run("wraps existence check failures as unavailable", func(t *testing.T) {
		f := newFixture()
		f.ledger.existsErr = errors.New("connection reset")

		_, err := f.svc.Submit(ctx, "CERT-1")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
		assert.Equal(t, 0, f.ledger.submitCalls)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty certificate id", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Verify(ctx, "alice", "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("returns not found when ledger misses", func(t *testing.T) {
		f := newFixture()
		status, err := f.svc.Verify(ctx, "alice", "CERT-404")
		require.NoError(t, err)
		assert.Equal(t, models.StatusNotFound, status)

		// A failed verification must not populate the cache.
		ok, err := f.verifications.Exists(ctx, "alice", "CERT-404")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("cache is monotonic even if ledger later disagrees", func(t *testing.T) {
		f := newFixture()
		f.ledger.submitted["CERT-1"] = true

		status, err := f.svc.Verify(ctx, "alice", "CERT-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusVerified, status)
		ledgerCalls := f.ledger.existsCalls

		// Flip the ledger answer to false; the cached verification must win
		// without another ledger call.
		no := false
		f.ledger.existsAnswer = &no

		status, err = f.svc.Verify(ctx, "alice", "CERT-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusVerified, status)
		assert.Equal(t, ledgerCalls, f.ledger.existsCalls, "cache hit must not query the ledger")
	})

	t.Run("guest verifications are never logged", func(t *testing.T) {
		f := newFixture()
		f.ledger.submitted["CERT-1"] = true

		for range 3 {
			status, err := f.svc.Verify(ctx, "guest", "CERT-1")
			require.NoError(t, err)
			assert.Equal(t, models.StatusVerified, status)
		}
		assert.Equal(t, 3, f.ledger.existsCalls, "guest always re-queries the ledger")

		ok, err := f.verifications.Exists(ctx, "guest", "CERT-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty username defaults to guest", func(t *testing.T) {
		f := newFixture()
		f.ledger.submitted["CERT-1"] = true

		status, err := f.svc.Verify(ctx, "", "CERT-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusVerified, status)

		ok, err := f.verifications.Exists(ctx, "guest", "CERT-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("strict audit surfaces log write failure", func(t *testing.T) {
		f := newFixture(func(f *fixture) {
			f.verifications = &failingVerificationLog{
				VerificationLogStore: store.NewInMemoryVerificationLog(),
				appendErr:            errors.New("disk full"),
			}
		})
		f.ledger.submitted["CERT-1"] = true

		_, err := f.svc.Verify(ctx, "alice", "CERT-1")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("uses request-scoped time for the log entry", func(t *testing.T) {
		f := newFixture()
		f.ledger.submitted["CERT-1"] = true
		fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

		_, err := f.svc.Verify(requestcontext.WithTime(ctx, fixed), "alice", "CERT-1")
		require.NoError(t, err)

		entries, err := f.verifications.ListByUser(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Timestamp.Equal(fixed))
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("requires username", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.History(ctx, "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("merges both kinds sorted by timestamp descending", func(t *testing.T) {
		f := newFixture()
		t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
		t2 := t1.Add(time.Hour)
		t3 := t2.Add(time.Hour)

		require.NoError(t, f.verifications.Append(ctx, models.VerificationLogEntry{
			Username: "alice", CertificateID: "CERT-A", Timestamp: t1,
		}))
		require.NoError(t, f.questions.Append(ctx, models.QuestionLogEntry{
			Username: "alice", CertificateID: "CERT-B", Question: "q", Answer: "a", Lang: "en", Timestamp: t2,
		}))
		require.NoError(t, f.verifications.Append(ctx, models.VerificationLogEntry{
			Username: "alice", CertificateID: "CERT-C", Timestamp: t3,
		}))

		entries, err := f.svc.History(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, "CERT-C", entries[0].CertificateID)
		assert.Equal(t, models.KindVerification, entries[0].Kind)
		assert.Equal(t, "CERT-B", entries[1].CertificateID)
		assert.Equal(t, models.KindQuestion, entries[1].Kind)
		assert.Equal(t, "q", entries[1].Question)
		assert.Equal(t, "CERT-A", entries[2].CertificateID)
	})

	t.Run("empty history is fine", func(t *testing.T) {
		f := newFixture()
		entries, err := f.svc.History(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("requires certificate id and question", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Ask(ctx, "alice", "CERT-1", "", "en")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = f.svc.Ask(ctx, "alice", "", "why?", "en")
		require.Error(t, err)
	})

	t.Run("answers and logs the exchange", func(t *testing.T) {
		f := newFixture()
		answer, err := f.svc.Ask(ctx, "alice", "CERT-1", "Is it valid?", "tr")
		require.NoError(t, err)
		assert.Equal(t, "answer about CERT-1", answer)
		assert.Equal(t, "tr", f.assistant.lastLang)

		entries, err := f.questions.ListByUser(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Is it valid?", entries[0].Question)
		assert.Equal(t, answer, entries[0].Answer)
	})

	t.Run("unknown lang falls back to english", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Ask(ctx, "alice", "CERT-1", "valid?", "de")
		require.NoError(t, err)
		assert.Equal(t, "en", f.assistant.lastLang)
	})

	t.Run("empty username defaults to anonymous", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Ask(ctx, "", "CERT-1", "valid?", "en")
		require.NoError(t, err)

		entries, err := f.questions.ListByUser(ctx, "anonymous")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("log failure never blocks the answer", func(t *testing.T) {
		f := newFixture(func(f *fixture) {
			f.questions = &failingQuestionLog{
				QuestionLogStore: store.NewInMemoryQuestionLog(),
				appendErr:        errors.New("disk full"),
			}
		})

		answer, err := f.svc.Ask(ctx, "alice", "CERT-1", "valid?", "en")
		require.NoError(t, err)
		assert.Equal(t, "answer about CERT-1", answer)
	})
}
