package synthesis

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
	// synthesesTotal counts synthesis attempts by outcome.
	synthesesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invoiceqa",
			Subsystem: "synthesis",
			Name:      "syntheses_total",
			Help:      "Total number of synthesis attempts by outcome",
		},
		[]string{"outcome"},
	)

	// synthesisDuration tracks how long completion calls take.
	synthesisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "invoiceqa",
			Subsystem: "synthesis",
			Name:      "completion_duration_seconds",
			Help:      "Duration of language-model completion calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
