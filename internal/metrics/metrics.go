// Package metrics exposes Prometheus instruments for fare lookups, cache
// reuse, and dataset preparation. All methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "world_explorer"

// Metrics holds the instruments registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	FareLookups    *prometheus.CounterVec
	LookupDuration prometheus.Histogram
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CitiesDropped  prometheus.Counter
	Searches       prometheus.Counter
}

// New creates and registers all instruments.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FareLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fares",
			Name:      "lookups_total",
			Help:      "Fare provider lookups by outcome",
		}, []string{"outcome"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fares",
			Name:      "lookup_duration_seconds",
			Help:      "Fare provider lookup latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flight_cache",
			Name:      "hits_total",
			Help:      "Routes answered from a nearby cached route",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flight_cache",
			Name:      "misses_total",
			Help:      "Routes with no reusable cached route",
		}),
		CitiesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "cities_dropped_total",
			Help:      "Cities excluded for incomplete or unconvertible cost data",
		}),
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Affordability queries executed",
		}),
	}
	m.registry.MustRegister(
		m.FareLookups, m.LookupDuration, m.CacheHits, m.CacheMisses,
		m.CitiesDropped, m.Searches,
	)
	return m
}

// Registry returns the registry holding the instruments.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveLookup records one provider lookup.
func (m *Metrics) ObserveLookup(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.FareLookups.WithLabelValues(outcome).Inc()
	m.LookupDuration.Observe(d.Seconds())
}

// CacheHit records a reused route.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// CacheMiss records a route that needed a lookup.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// Dropped records cities excluded from the searchable set.
func (m *Metrics) Dropped(n int) {
	if m == nil {
		return
	}
	m.CitiesDropped.Add(float64(n))
}

// Search records one executed query.
func (m *Metrics) Search() {
	if m == nil {
		return
	}
	m.Searches.Inc()
}
