// Package metrics holds the Prometheus collectors of the catalog pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Aggregation outcomes
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

var (
	aggregationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tesseract",
		Subsystem: "catalog",
		Name:      "aggregations_total",
		Help:      "Category and brand aggregations by source and outcome.",
	}, []string{"source", "outcome"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tesseract",
		Subsystem: "catalog",
		Name:      "fetch_duration_seconds",
		Help:      "Latency of storefront backend fetches.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	snapshotCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tesseract",
		Subsystem: "catalog",
		Name:      "snapshot_cache_total",
		Help:      "Category snapshot cache lookups by result.",
	}, []string{"result"})
)

// RecordAggregation counts one aggregation
func RecordAggregation(source, outcome string) {
	aggregationsTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveFetch records the latency of a backend fetch started at start
func ObserveFetch(operation string, start time.Time) {
	fetchDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordSnapshotCache counts a cache hit, miss, stale discard or error
func RecordSnapshotCache(result string) {
	snapshotCacheTotal.WithLabelValues(result).Inc()
}
