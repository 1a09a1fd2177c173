// Package metrics exposes Prometheus instrumentation for the enrichment cache
// and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Enrichment outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeFailure = "failure"
)

var (
	// Metadata cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movielens_metadata_cache_hits_total",
			Help: "Total number of metadata cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movielens_metadata_cache_misses_total",
			Help: "Total number of metadata cache misses",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movielens_metadata_cache_entries",
			Help: "Current number of cached metadata records",
		},
	)

	CachePersistErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movielens_metadata_cache_persist_errors_total",
			Help: "Total number of failed cache writes",
		},
	)

	// Enrichment fetches
	EnrichTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movielens_enrich_total",
			Help: "Total number of enrichment fetches by outcome",
		},
		[]string{"outcome"}, // "ok", "empty", "failure"
	)

	EnrichDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movielens_enrich_duration_seconds",
			Help:    "Duration of enrichment page fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		},
	)

	// API
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movielens_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordCacheLookup counts a cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheHits.Inc()
		return
	}
	CacheMisses.Inc()
}

// RecordEnrich records one enrichment fetch.
func RecordEnrich(outcome string, duration time.Duration) {
	EnrichTotal.WithLabelValues(outcome).Inc()
	EnrichDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records the latency of one API request.
func RecordAPIRequest(method, route string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
