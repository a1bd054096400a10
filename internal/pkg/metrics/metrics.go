// internal/pkg/metrics/metrics.go
package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// --- Inbound (server) metrics ---
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "code"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_errors_total",
			Help: "Total number of HTTP requests resulting in client or server errors.",
		},
		[]string{"method", "route", "code"},
	)

	// --- Outbound (analysis service) metrics ---
	HTTPClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_requests_total",
			Help: "Total number of requests sent to the analysis service.",
		},
		[]string{"method", "code"},
	)
	HTTPClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_client_request_duration_seconds",
			Help:    "Latency of requests sent to the analysis service.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)
	HTTPClientErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_request_errors_total",
			Help: "Total number of analysis service requests that failed or returned error status.",
		},
		[]string{"method", "code"},
	)

	// --- Presentation metrics ---
	AnalysisSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_submissions_total",
			Help: "Submissions by outcome (success, validation_error, transport_error, application_error, malformed_response, stale).",
		},
		[]string{"outcome"},
	)
	AnalysisVerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_verdicts_total",
			Help: "Verdicts presented, by prediction.",
		},
		[]string{"prediction"},
	)
	MetricTiersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metric_tiers_total",
			Help: "Rendered metric rows by group and risk tier.",
		},
		[]string{"group", "tier"},
	)
	MetricConfigErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metric_config_errors_total",
			Help: "Metrics missing from the label or policy tables.",
		},
		[]string{"group", "kind"},
	)
	ChartReplacementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "confidence_chart_replacements_total",
			Help: "Confidence charts built; each one replaces the previous instance.",
		},
	)
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analyzer_active_sessions",
			Help: "Browser sessions currently holding a page.",
		},
	)

	// --- Runtime metrics ---
	CPUCount = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "process_cpu_count",
			Help: "Number of CPU cores available.",
		},
		func() float64 { return float64(runtime.NumCPU()) },
	)
)

func MetricsRegister() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestErrorsTotal,
		HTTPClientRequestsTotal,
		HTTPClientRequestDuration,
		HTTPClientErrorsTotal,
		AnalysisSubmissionsTotal,
		AnalysisVerdictsTotal,
		MetricTiersTotal,
		MetricConfigErrorsTotal,
		ChartReplacementsTotal,
		ActiveSessions,
		CPUCount,
	)

	return reg
}
