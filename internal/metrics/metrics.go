// Package metrics provides Prometheus metrics for kiosk-feed.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
)

var (
	// UpstreamRequests counts upstream fetches by provider and outcome.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kiosk",
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream provider fetches",
		},
		[]string{"provider", "outcome"},
	)

	// UpstreamDuration measures upstream fetch duration.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kiosk",
			Name:      "upstream_duration_seconds",
			Help:      "Duration of upstream provider fetches in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"provider"},
	)

	// CacheLookups counts result cache lookups.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kiosk",
			Name:      "cache_lookups_total",
			Help:      "Total number of result cache lookups",
		},
		[]string{"result"},
	)
)

// RecordUpstream records one upstream fetch.
func RecordUpstream(provider, outcome string, elapsed time.Duration) {
	UpstreamRequests.WithLabelValues(provider, outcome).Inc()
	UpstreamDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(result).Inc()
}
