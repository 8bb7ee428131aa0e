// Package metrics exposes Prometheus instruments for the proxy server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for proxied requests.
const (
	OutcomeSuccess       = "success"
	OutcomeBadRequest    = "bad_request"
	OutcomeUpstreamError = "upstream_error"
)

// ProxyMetrics counts relayed requests and times the upstream round trip.
type ProxyMetrics struct {
	requests *prometheus.CounterVec
	upstream prometheus.Histogram
}

// NewProxyMetrics registers the proxy instruments on reg.
func NewProxyMetrics(reg prometheus.Registerer) *ProxyMetrics {
	m := &ProxyMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexbrief",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Chat requests handled by the proxy, by outcome.",
		}, []string{"outcome"}),
		upstream: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lexbrief",
			Subsystem: "proxy",
			Name:      "upstream_duration_seconds",
			Help:      "Time spent waiting for the research backend.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
	reg.MustRegister(m.requests, m.upstream)
	return m
}

// Observe records one finished request. A nil receiver is a no-op.
func (m *ProxyMetrics) Observe(outcome string, upstream time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
	if upstream > 0 {
		m.upstream.Observe(upstream.Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
