package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search engine metrics, labeled by search mode (traditional, semantic, hybrid).
var (
	SearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "amber",
		Subsystem: "search",
		Name:      "duration_seconds",
		Help:      "Latency of search engine calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})

	SearchResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "amber",
		Subsystem: "search",
		Name:      "results",
		Help:      "Number of results returned per search call.",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
	}, []string{"mode"})

	SearchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "amber",
		Subsystem: "search",
		Name:      "errors_total",
		Help:      "Search engine calls that surfaced a storage failure.",
	}, []string{"mode"})

	SkippedEmbeddings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "amber",
		Subsystem: "search",
		Name:      "skipped_embeddings_total",
		Help:      "Embedding records skipped during semantic search (null or malformed vectors).",
	})
)

// Habit analytics metrics.
var (
	AnalyticsCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "amber",
		Subsystem: "habits",
		Name:      "analytics_calls_total",
		Help:      "Habit analytics operations by name.",
	}, []string{"op"})
)
