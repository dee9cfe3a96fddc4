package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for institution onboarding.
type Metrics struct {
	Requests   prometheus.Counter
	Decisions  *prometheus.CounterVec
	Registrars prometheus.Counter
}

// New creates and registers onboarding metrics.
func New() *Metrics {
	return &Metrics{
		Requests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certledger_institution_requests_total",
			Help: "Institution registration requests received",
		}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certledger_institution_decisions_total",
			Help: "Institution onboarding decisions by outcome",
		}, []string{"outcome"}),
		Registrars: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certledger_registrar_authorizations_total",
			Help: "Successful registrar authorizations",
		}),
	}
}

// Decision outcomes.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
	DecisionConflict = "conflict"
	DecisionNotFound = "not_found"
)

func (m *Metrics) IncRequest() {
	if m == nil {
		return
	}
	m.Requests.Inc()
}

func (m *Metrics) IncDecision(outcome string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncRegistrar() {
	if m == nil {
		return
	}
	m.Registrars.Inc()
}
