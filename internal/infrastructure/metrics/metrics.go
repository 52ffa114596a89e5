package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ADOGENT API metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adogent",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "adogent",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// AI agent requests
	AgentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adogent",
			Subsystem: "ai",
			Name:      "agent_requests_total",
			Help:      "Total AI agent requests",
		},
		[]string{"agent", "interaction_type", "status"},
	)

	// Model inference duration
	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "adogent",
			Subsystem: "ai",
			Name:      "inference_duration_seconds",
			Help:      "Model inference duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model", "provider"},
	)

	// Token estimates per request
	TokensPerRequest = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "adogent",
			Subsystem: "ai",
			Name:      "tokens_per_request",
			Help:      "Distribution of estimated tokens per request",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
		[]string{"model"},
	)

	// Recommendations served
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adogent",
			Subsystem: "ai",
			Name:      "recommendations_total",
			Help:      "Product recommendations served",
		},
		[]string{"strategy"},
	)

	// Model backend health gauge
	BackendHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "adogent",
			Subsystem: "ai",
			Name:      "backend_health",
			Help:      "Model backend health status (1=healthy, 0=unhealthy)",
		},
		[]string{"provider"},
	)

	// Auth requests
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adogent",
			Subsystem: "api",
			Name:      "auth_requests_total",
			Help:      "Total authentication requests",
		},
		[]string{"operation", "status"},
	)

	// Catalog mutations
	CatalogWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adogent",
			Subsystem: "catalog",
			Name:      "writes_total",
			Help:      "Catalog create/update/delete operations",
		},
		[]string{"entity", "operation", "status"},
	)

	// Media uploads
	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adogent",
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Image upload attempts",
		},
		[]string{"status"},
	)

	// Summary backfill runs
	SummaryBackfillTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adogent",
			Subsystem: "catalog",
			Name:      "summary_backfill_total",
			Help:      "AI summary backfill outcomes per product",
		},
		[]string{"status"},
	)
)

// RecordRequest records an HTTP request with duration.
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordAgentRequest records one agent invocation.
func RecordAgentRequest(agent, interactionType string, failed bool) {
	status := "success"
	if failed {
		status = "error"
	}
	AgentRequestsTotal.WithLabelValues(agent, interactionType, status).Inc()
}

// RecordInference records one model round trip.
func RecordInference(model, provider string, durationSec float64, tokens int) {
	InferenceDuration.WithLabelValues(model, provider).Observe(durationSec)
	if tokens > 0 {
		TokensPerRequest.WithLabelValues(model).Observe(float64(tokens))
	}
}

// SetBackendHealth flips the health gauge for a model provider.
func SetBackendHealth(provider string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1.0
	}
	BackendHealth.WithLabelValues(provider).Set(v)
}
