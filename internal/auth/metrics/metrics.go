package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for account operations.
type Metrics struct {
	Registrations  *prometheus.CounterVec
	Logins         *prometheus.CounterVec
	PasswordResets prometheus.Counter
}

// New creates and registers account metrics.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certledger_users_registered_total",
			Help: "Users registered by role",
		}, []string{"role"}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certledger_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		PasswordResets: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certledger_password_resets_total",
			Help: "Successful password resets",
		}),
	}
}

// Login outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
)

func (m *Metrics) IncRegistration(role string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(role).Inc()
}

func (m *Metrics) IncLogin(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncPasswordReset() {
	if m == nil {
		return
	}
	m.PasswordResets.Inc()
}
