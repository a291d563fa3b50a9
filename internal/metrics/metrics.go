package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and model-call metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentverse",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"outcome"}, // empty_query, ok, error
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "rentverse",
			Name:      "search_results",
			Help:      "Number of listings returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 30},
		},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentverse",
			Name:      "llm_requests_total",
			Help:      "Total number of language model requests",
		},
		[]string{"operation", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rentverse",
			Name:      "llm_request_duration_seconds",
			Help:      "Language model request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentverse",
			Name:      "search_fallbacks_total",
			Help:      "Intent and ranking fallbacks by reason",
		},
		[]string{"component", "reason"}, // component: intent, ranking
	)

	IntentCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentverse",
			Name:      "intent_cache_total",
			Help:      "Intent cache hits and misses",
		},
		[]string{"result"},
	)

	RealtimePublishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentverse",
			Name:      "realtime_publish_total",
			Help:      "Realtime event publishes by status",
		},
		[]string{"status"},
	)
)

// Register registers all collectors with reg. Call once from the composition root.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		httpRequestDuration,
		httpRequestsTotal,
		SearchRequestsTotal,
		SearchResults,
		LLMRequestsTotal,
		LLMRequestDuration,
		FallbacksTotal,
		IntentCacheTotal,
		RealtimePublishTotal,
	)
}
