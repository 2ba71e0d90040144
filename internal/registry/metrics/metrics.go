// Package metrics exposes Prometheus collectors for registry verification.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	VerificationOutcome *prometheus.CounterVec
	RegistryLatency     *prometheus.HistogramVec
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		VerificationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nordkyc_verification_outcomes_total",
			Help: "Verification results by country and status.",
		}, []string{"country", "status"}),
		RegistryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nordkyc_registry_lookup_duration_seconds",
			Help:    "Latency of registry lookups by country.",
			Buckets: prometheus.DefBuckets,
		}, []string{"country"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nordkyc_registry_cache_hits_total",
			Help: "Registry cache hits.",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nordkyc_registry_cache_misses_total",
			Help: "Registry cache misses.",
		}),
	}
}

func (m *Metrics) IncrementOutcome(country, status string) {
	if m == nil {
		return
	}
	m.VerificationOutcome.WithLabelValues(country, status).Inc()
}

func (m *Metrics) ObserveLookup(country string, seconds float64) {
	if m == nil {
		return
	}
	m.RegistryLatency.WithLabelValues(country).Observe(seconds)
}

func (m *Metrics) IncrementCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) IncrementCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}
