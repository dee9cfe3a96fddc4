package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the verification subsystem.
type Metrics struct {
	Submissions   *prometheus.CounterVec
	Verifications *prometheus.CounterVec
	Questions     prometheus.Counter
	LedgerLatency prometheus.Histogram
}

// New creates and registers verification metrics.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certledger_submissions_total",
			Help: "Certificate submission attempts by outcome",
		}, []string{"outcome"}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certledger_verifications_total",
			Help: "Certificate verification attempts by result",
		}, []string{"result"}),
		Questions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certledger_ai_questions_total",
			Help: "AI certificate questions asked",
		}),
		LedgerLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certledger_ledger_roundtrip_seconds",
			Help:    "Latency of ledger RPC round-trips",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Submission outcomes and verification results.
const (
	OutcomeSubmitted      = "submitted"
	OutcomeAlreadyOnChain = "already_on_chain"
	OutcomeLedgerError    = "ledger_error"

	ResultCacheHit  = "cache_hit"
	ResultLedgerHit = "ledger_hit"
	ResultNotFound  = "not_found"
)

func (m *Metrics) IncSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncVerification(result string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(result).Inc()
}

func (m *Metrics) IncQuestion() {
	if m == nil {
		return
	}
	m.Questions.Inc()
}

func (m *Metrics) ObserveLedgerLatency(seconds float64) {
	if m == nil {
		return
	}
	m.LedgerLatency.Observe(seconds)
}
