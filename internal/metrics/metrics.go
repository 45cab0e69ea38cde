// Package metrics defines Prometheus metrics for belnav.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "belnav_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "belnav_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "belnav_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "belnav_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "belnav_active_sessions",
			Help: "Exploration sessions currently running",
		},
	)

	QueriesIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "belnav_subgraph_queries_total",
			Help: "Subgraph queries issued by exploration sessions",
		},
	)

	StaleResponsesDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "belnav_stale_responses_discarded_total",
			Help: "Provider responses discarded because a newer query superseded them",
		},
	)

	FramesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "belnav_frames_dropped_total",
			Help: "Layout frames dropped on slow WebSocket clients",
		},
	)

	QueryCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "belnav_query_cache_hits_total",
			Help: "Subgraph queries answered from the LRU cache",
		},
	)

	QueryCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "belnav_query_cache_misses_total",
			Help: "Subgraph queries that missed the LRU cache",
		},
	)

	NetworkCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "belnav_networks_total",
			Help: "Loaded network count",
		},
	)

	NodeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "belnav_nodes_total",
			Help: "Node count of the merged universe",
		},
	)

	EdgeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "belnav_edges_total",
			Help: "Edge count of the merged universe",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		WSConnections, ActiveSessions,
		QueriesIssued, StaleResponsesDiscarded, FramesDropped,
		QueryCacheHits, QueryCacheMisses,
		NetworkCount, NodeCount, EdgeCount,
	)
}
