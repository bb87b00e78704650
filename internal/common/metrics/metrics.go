// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoringRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscore_runs_total",
			Help: "Total number of batch scoring runs by outcome",
		},
		[]string{"status"},
	)

	RFQsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadscore_rfqs_scored_total",
			Help: "Total number of RFQs scored",
		},
	)

	RFQsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscore_rfqs_skipped_total",
			Help: "Total number of candidate RFQs skipped by reason",
		},
		[]string{"reason"},
	)

	ConversionProbability = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leadscore_conversion_probability",
			Help:    "Distribution of emitted conversion probabilities",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	ModelTestAUC = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "leadscore_model_test_auc",
			Help: "Hold-out AUC of the most recently trained model",
		},
	)

	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "leadscore_run_duration_seconds",
			Help: "Duration of batch scoring runs in seconds",
		},
	)
)
