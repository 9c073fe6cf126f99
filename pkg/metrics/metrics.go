// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// IntentsTotal tracks classified messages per intent bucket.
	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_intents_total",
			Help: "Messages classified per intent bucket",
		},
		[]string{"bucket"},
	)

	// SessionsCreated tracks new conversation sessions.
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orchestrator_sessions_created_total",
			Help: "New conversation sessions created",
		},
	)

	// TurnDuration tracks end-to-end orchestrator turn duration.
	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orchestrator_turn_duration_seconds",
			Help:    "End-to-end orchestrator turn duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// TurnPublishErrors tracks failed turn event publishes.
	TurnPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orchestrator_turn_publish_errors_total",
			Help: "Turn events that failed to publish to the stream",
		},
	)

	// LLMProxyDuration tracks studio LLM proxy call duration.
	LLMProxyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_proxy_duration_seconds",
			Help:    "Studio LLM proxy call duration",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"provider", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed by the proxy.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"provider", "direction"},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// ProductionsSeeded tracks seeded productions.
	ProductionsSeeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "productions_seeded_total",
			Help: "Productions created through setup",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTurn records one orchestrator turn.
func RecordTurn(bucket string, duration float64) {
	IntentsTotal.WithLabelValues(bucket).Inc()
	TurnDuration.Observe(duration)
}

// RecordLLMProxy records one studio LLM proxy call.
func RecordLLMProxy(provider, status string, duration float64, tokensIn, tokensOut int) {
	LLMProxyDuration.WithLabelValues(provider, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(provider, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(provider, "out").Add(float64(tokensOut))
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
