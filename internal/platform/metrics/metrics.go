// Package metrics holds application-wide Prometheus metrics. Per-module
// metrics live next to their modules; this package carries the cross-cutting
// pipeline view.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the onboarding pipeline as a whole.
type Metrics struct {
	// Dispatch outcomes by logical function and terminal status.
	DispatchOutcome *prometheus.CounterVec

	// Per-stage latency within an orchestrated chain.
	StageLatency *prometheus.HistogramVec

	// Customers successfully registered.
	CustomersRegistered prometheus.Counter
}

// New creates a Metrics instance with all pipeline metrics registered on the
// default registry.
func New() *Metrics {
	return &Metrics{
		DispatchOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nordkyc_dispatch_outcomes_total",
			Help: "Total orchestrator dispatch outcomes by function and status",
		}, []string{"function", "status"}),

		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nordkyc_stage_duration_seconds",
			Help:    "Duration of pipeline stages within an orchestrated chain",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}), // stage: "extract", "verify", "register"

		CustomersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nordkyc_customers_registered_total",
			Help: "Total number of customers created in the system",
		}),
	}
}

// IncrementDispatch records a dispatch outcome.
func (m *Metrics) IncrementDispatch(function, status string) {
	if m != nil {
		m.DispatchOutcome.WithLabelValues(function, status).Inc()
	}
}

// ObserveStageLatency records the duration of a pipeline stage.
func (m *Metrics) ObserveStageLatency(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// IncrementCustomersRegistered increments the customers created counter by 1.
func (m *Metrics) IncrementCustomersRegistered() {
	if m != nil {
		m.CustomersRegistered.Inc()
	}
}
