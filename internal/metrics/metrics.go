// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Memoizer metrics, labelled by memoizer name
	MemoHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memo_cache_hits_total",
			Help: "Total number of memoized results served from cache",
		},
		[]string{"name"},
	)

	MemoMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memo_cache_misses_total",
			Help: "Total number of memoized calls that invoked the wrapped function",
		},
		[]string{"name"},
	)

	MemoEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "memo_cache_entries",
			Help: "Current number of entries held by a memoizer",
		},
		[]string{"name"},
	)

	// Graph transaction metrics, labelled by access mode
	TxDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graph_tx_duration_seconds",
			Help:    "Duration of graph transactions including session acquisition and close",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	TxErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_tx_errors_total",
			Help: "Total number of graph transactions that returned an error",
		},
		[]string{"mode"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_hits_total",
			Help: "Total number of requests rejected by the per-IP rate limiter",
		},
		[]string{"route"},
	)
)
