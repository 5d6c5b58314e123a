package metrics

import "github.com/prometheus/client_golang/prometheus"

// Generation and catalog Prometheus metrics.
var (
	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devisd",
			Name:      "generation_requests_total",
			Help:      "Total number of solution generation requests",
		},
		[]string{"model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "devisd",
			Name:      "generation_request_duration_seconds",
			Help:      "Solution generation duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devisd",
			Name:      "generation_tokens_total",
			Help:      "Total generation tokens consumed",
		},
		[]string{"model", "type"},
	)

	RetrievalResultsCount = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "devisd",
			Name:      "retrieval_results_count",
			Help:      "Number of similar interventions retrieved per analysis",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		},
		[]string{"trade"},
	)

	AnalysisConfidenceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devisd",
			Name:      "analysis_confidence_total",
			Help:      "Analyses by resulting confidence level",
		},
		[]string{"trade", "confidence"},
	)

	CatalogCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devisd",
			Name:      "catalog_cache_total",
			Help:      "Price catalog cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	EstimateLinesMissingPrice = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devisd",
			Name:      "estimate_lines_missing_price_total",
			Help:      "Estimate lines whose catalog code had no price",
		},
		[]string{"trade"},
	)
)

var genMetricsRegistered bool

// RegisterGenerationMetrics registers Prometheus generation metrics. Must be called once from main.
func RegisterGenerationMetrics() {
	if genMetricsRegistered {
		return
	}
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	prometheus.MustRegister(RetrievalResultsCount)
	prometheus.MustRegister(AnalysisConfidenceTotal)
	prometheus.MustRegister(CatalogCacheTotal)
	prometheus.MustRegister(EstimateLinesMissingPrice)
	genMetricsRegistered = true
}
