package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the tool server.
type Metrics struct {
	// Upstream NWS API metrics.
	UpstreamRequests *prometheus.CounterVec // labels: outcome={success,timeout,transport_error,status_error,decode_error}
	UpstreamDuration prometheus.Histogram
	UpstreamCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Tool dispatch metrics.
	ToolCalls        *prometheus.CounterVec   // labels: tool, result={ok,tool_error,error}
	ToolCallDuration *prometheus.HistogramVec // labels: tool
	SessionActive    prometheus.Gauge

	EventsPublished *prometheus.CounterVec // labels: result={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.UpstreamCache,
		m.ToolCalls,
		m.ToolCallDuration,
		m.SessionActive,
		m.EventsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_mcp",
			Name:      "upstream_requests_total",
			Help:      "NWS API requests by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_mcp",
			Name:      "upstream_request_duration_seconds",
			Help:      "NWS API round-trip duration in seconds, including body read.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 35},
		}),
		UpstreamCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_mcp",
			Name:      "upstream_cache_total",
			Help:      "Response cache lookups by result.",
		}, []string{"result"}),
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_mcp",
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool and result.",
		}, []string{"tool", "result"}),
		ToolCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_mcp",
			Name:      "tool_call_duration_seconds",
			Help:      "End-to-end tool invocation duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"tool"}),
		SessionActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_mcp",
			Name:      "session_active",
			Help:      "1 while the stdio session is being served, 0 otherwise.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_mcp",
			Name:      "events_published_total",
			Help:      "Tool-call events handed to the event sink by result.",
		}, []string{"result"}),
	}
}
