package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors
type Metrics struct {
	// Store calls by operation and outcome ("ok" | "error")
	StoreRequests *prometheus.CounterVec
	StoreLatency  *prometheus.HistogramVec

	// HTTP requests by route pattern
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Size of each materialized block tree
	BlockTreeNodes prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers all collectors on reg. Passing a fresh prometheus.NewRegistry()
// keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		StoreRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_store_requests_total",
			Help: "Total number of workspace store calls by operation and outcome",
		}, []string{"operation", "outcome"}),

		StoreLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_store_request_duration_seconds",
			Help:    "Workspace store call latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"operation"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		BlockTreeNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_block_tree_nodes",
			Help:    "Number of blocks in each fetched content tree",
			Buckets: []float64{1, 10, 50, 100, 250, 500, 1000, 2500, 5000},
		}),

		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
