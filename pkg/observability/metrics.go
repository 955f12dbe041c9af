package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Query metrics
	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Record loading
	RecordsLoaded  prometheus.Counter
	RecordsSkipped *prometheus.CounterVec

	// Live search settings
	MatchThreshold prometheus.Gauge
}

// NewCollector creates a collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of queries by outcome",
			},
			[]string{"query", "outcome"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Query duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		RecordsLoaded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_loaded_total",
				Help:      "Total number of meme records loaded",
			},
		),
		RecordsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_skipped_total",
				Help:      "Total number of meme records skipped by best-effort loading",
			},
			[]string{"reason"},
		),
		MatchThreshold: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "search_match_threshold",
				Help:      "Fuzzy title threshold currently applied by search",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Queries,
		c.QueryDuration,
		c.RecordsLoaded,
		c.RecordsSkipped,
		c.MatchThreshold,
	)

	return c
}

// RecordSkipped counts a record dropped by best-effort loading
func (c *Collector) RecordSkipped(reason string) {
	c.RecordsSkipped.WithLabelValues(reason).Inc()
}

// RecordLoaded counts successfully loaded records
func (c *Collector) RecordLoaded(count int) {
	c.RecordsLoaded.Add(float64(count))
}

// SetMatchThreshold publishes the threshold search is using
func (c *Collector) SetMatchThreshold(threshold float64) {
	c.MatchThreshold.Set(threshold)
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveQuery records one query outcome
func (c *Collector) ObserveQuery(query, outcome string) {
	c.Queries.WithLabelValues(query, outcome).Inc()
}

// StartQueryTimer starts timing a query; call the returned func when done
func (c *Collector) StartQueryTimer(query string) func() {
	timer := prometheus.NewTimer(c.QueryDuration.WithLabelValues(query))
	return func() { timer.ObserveDuration() }
}

// Handler exposes the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

