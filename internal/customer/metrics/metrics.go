// Package metrics exposes Prometheus collectors for customer registration.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RegistrationOutcome *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		RegistrationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nordkyc_registration_outcomes_total",
			Help: "Registration results by country and status.",
		}, []string{"country", "status"}),
	}
}

func (m *Metrics) IncrementOutcome(country, status string) {
	if m == nil {
		return
	}
	m.RegistrationOutcome.WithLabelValues(country, status).Inc()
}
