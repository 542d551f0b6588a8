// Package observability holds the Prometheus metrics the service exports.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for the application. It uses its
// own registry so tests can construct collectors freely.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Retrieval metrics
	SearchQueries    *prometheus.CounterVec
	SearchDegraded   *prometheus.CounterVec
	ReviewsMarked    prometheus.Counter
	InsightsComputed *prometheus.CounterVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Enrichment metrics
	ItemsEnriched  prometheus.Counter
	EnrichFailures prometheus.Counter
}

// NewCollector creates a metrics collector with the given namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	searchQueries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Total number of unified search queries",
		},
		[]string{"status"},
	)

	searchDegraded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_degraded_branches_total",
			Help:      "Search branches that degraded to empty results",
		},
		[]string{"kind"},
	)

	reviewsMarked := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_marked_total",
			Help:      "Total number of notes marked reviewed",
		},
	)

	insightsComputed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_computed_total",
			Help:      "Insight computations by type",
		},
		[]string{"type"},
	)

	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insight_cache_hits_total",
			Help:      "Total number of insight cache hits",
		},
	)

	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insight_cache_misses_total",
			Help:      "Total number of insight cache misses",
		},
	)

	itemsEnriched := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_enriched_total",
			Help:      "Items given an embedding by the enrichment queue",
		},
	)

	enrichFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrich_failures_total",
			Help:      "Enrichment attempts that exhausted their retries",
		},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		searchQueries,
		searchDegraded,
		reviewsMarked,
		insightsComputed,
		cacheHits,
		cacheMisses,
		itemsEnriched,
		enrichFailures,
	)

	return &Collector{
		registry:         registry,
		HTTPRequests:     httpRequests,
		HTTPDuration:     httpDuration,
		SearchQueries:    searchQueries,
		SearchDegraded:   searchDegraded,
		ReviewsMarked:    reviewsMarked,
		InsightsComputed: insightsComputed,
		CacheHits:        cacheHits,
		CacheMisses:      cacheMisses,
		ItemsEnriched:    itemsEnriched,
		EnrichFailures:   enrichFailures,
	}
}

// Registry returns the Prometheus registry for this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
