package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restaurant",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "restaurant",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	// ChatReplies counts persisted bot replies by bot type and outcome
	// (canned, fallback, generated, quota, error).
	ChatReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restaurant",
			Subsystem: "chat",
			Name:      "replies_total",
			Help:      "Bot replies written, by bot type and outcome.",
		},
		[]string{"bot_type", "outcome"},
	)

	// TokensConsumed counts successful AI generations charged to a ledger.
	TokensConsumed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "restaurant",
			Subsystem: "chat",
			Name:      "tokens_consumed_total",
			Help:      "AI chat tokens deducted from user ledgers.",
		},
	)

	// TaskRuns counts background task executions by kind and status.
	TaskRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restaurant",
			Subsystem: "tasks",
			Name:      "runs_total",
			Help:      "Background task executions, by kind and final status.",
		},
		[]string{"kind", "status"},
	)

	llmDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "restaurant",
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Latency of language model calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		ChatReplies,
		TokensConsumed,
		TaskRuns,
		llmDuration,
	)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, path, status string, d time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func ObserveLLM(d time.Duration) {
	llmDuration.Observe(d.Seconds())
}
