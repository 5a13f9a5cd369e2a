// Package metrics records what the verifier does.
// Defined metrics:
//   simplicity_decoded_total (counter)
//   simplicity_verified_total (counter)
//   simplicity_cache_hits_total (counter)
//   simplicity_failed_total{category} (counter, one series per error category)
//   simplicity_nodes (histogram of decoded program sizes)
//   simplicity_cells (histogram of peak Bit Machine memory)
//   simplicity_latency_seconds (histogram of verification time)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "simplicity"

var (
	decoded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decoded_total",
		Help:      "Programs decoded.",
	})
	verified = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verified_total",
		Help:      "Programs that ran to completion.",
	})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Verifications answered from cache.",
	})
	failed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failed_total",
		Help:      "Verification failures by error category.",
	}, []string{"category"})

	nodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "nodes",
		Help:      "Decoded program sizes in nodes.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 11),
	})
	cells = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cells",
		Help:      "Peak Bit Machine cells in use.",
		Buckets:   prometheus.ExponentialBuckets(64, 4, 12),
	})
	latency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "latency_seconds",
		Help:      "Time to verify one program.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 14),
	})
)

// RecordElapsed records the time since t as one verification.
func RecordElapsed(t time.Time) {
	latency.Observe(time.Since(t).Seconds())
}

// Decoded counts a successfully decoded program of n nodes.
func Decoded(n int) {
	decoded.Inc()
	nodes.Observe(float64(n))
}

// Verified counts a program that ran to completion
// using at most maxCells cells.
func Verified(maxCells int) {
	verified.Inc()
	if maxCells > 0 {
		cells.Observe(float64(maxCells))
	}
}

// CacheHit counts a verification answered from cache.
func CacheHit() {
	cacheHits.Inc()
}

// Failed counts a failure in the given error category.
func Failed(category string) {
	failed.WithLabelValues(category).Inc()
}
