// Package metrics provides observability for the extraction module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks extraction strategy outcomes and latencies.
type Metrics struct {
	// Attempts by terminal strategy label (strict, strict-recovered, fallback,
	// fallback-scan, fallback-none, none).
	Attempts *prometheus.CounterVec

	// Full Extract call latency, inference retries included.
	ExtractLatency prometheus.Histogram

	// Best-effort audit artifact write failures.
	AuditWriteFailures prometheus.Counter
}

// New registers and returns the extraction metrics.
func New() *Metrics {
	return &Metrics{
		Attempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nordkyc_extract_attempts_total",
			Help: "Extraction outcomes by terminal strategy",
		}, []string{"strategy"}),

		ExtractLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "nordkyc_extract_duration_seconds",
			Help:    "Duration of full extraction calls including retries",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		AuditWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nordkyc_extract_audit_write_failures_total",
			Help: "Audit artifact writes that failed (best effort, non-fatal)",
		}),
	}
}

// IncrementAttempt records a terminal extraction strategy.
func (m *Metrics) IncrementAttempt(strategy string) {
	if m != nil {
		m.Attempts.WithLabelValues(strategy).Inc()
	}
}

// ObserveExtractLatency records the duration of an Extract call.
func (m *Metrics) ObserveExtractLatency(d time.Duration) {
	if m != nil {
		m.ExtractLatency.Observe(d.Seconds())
	}
}

// IncrementAuditWriteFailure records a failed audit artifact write.
func (m *Metrics) IncrementAuditWriteFailure() {
	if m != nil {
		m.AuditWriteFailures.Inc()
	}
}
