package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric outcome labels.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var (
	// retrievalsTotal counts retrieval attempts by outcome.
	retrievalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invoiceqa",
			Subsystem: "search",
			Name:      "retrievals_total",
			Help:      "Total number of retrieval attempts by outcome",
		},
		[]string{"outcome"},
	)

	// retrievalDuration tracks how long backend searches take.
	retrievalDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "invoiceqa",
			Subsystem: "search",
			Name:      "retrieval_duration_seconds",
			Help:      "Duration of backend search calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
