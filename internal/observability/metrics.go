package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for open-status enrichment.
type Metrics struct {
	BatchesTotal  *prometheus.CounterVec   // labels: category
	BatchDuration *prometheus.HistogramVec // labels: category
	ItemsResolved *prometheus.CounterVec   // labels: category, outcome={live,cache,static}
	ItemFaults    prometheus.Counter

	// Lookup metrics.
	LookupRequests    *prometheus.CounterVec   // labels: method={no-key,findplace,textsearch,textsearch-none,error}
	LookupAPIDuration *prometheus.HistogramVec // labels: stage={findplace,textsearch}
	LookupEnabled     prometheus.Gauge

	// Cache document metrics.
	CacheLoadErrors    prometheus.Counter
	CachePersistErrors prometheus.Counter
	CacheEntries       prometheus.Gauge

	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis_locator",
			Name:      "batches_total",
			Help:      "Enrichment batches run, by category.",
		}, []string{"category"}),
		BatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crisis_locator",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete enrichment batch.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"category"}),
		ItemsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis_locator",
			Name:      "items_resolved_total",
			Help:      "Items resolved, by category and status source.",
		}, []string{"category", "outcome"}),
		ItemFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisis_locator",
			Name:      "item_faults_total",
			Help:      "Items whose resolution recorded an error.",
		}),
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis_locator",
			Name:      "lookup_requests_total",
			Help:      "Open-status lookups by resulting method tag.",
		}, []string{"method"}),
		LookupAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crisis_locator",
			Name:      "lookup_api_duration_seconds",
			Help:      "Place-search API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"stage"}),
		LookupEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crisis_locator",
			Name:      "lookup_enabled",
			Help:      "1 when a place-search API key is configured, 0 otherwise.",
		}),
		CacheLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisis_locator",
			Name:      "cache_load_errors_total",
			Help:      "Cache document reads that failed and degraded to an empty cache.",
		}),
		CachePersistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisis_locator",
			Name:      "cache_persist_errors_total",
			Help:      "Cache document writes that failed.",
		}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crisis_locator",
			Name:      "cache_entries",
			Help:      "Entries in the cache document after the last successful write.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisis_locator",
			Name:      "publish_errors_total",
			Help:      "Status event batches that failed to publish.",
		}),
	}

	prometheus.MustRegister(
		m.BatchesTotal,
		m.BatchDuration,
		m.ItemsResolved,
		m.ItemFaults,
		m.LookupRequests,
		m.LookupAPIDuration,
		m.LookupEnabled,
		m.CacheLoadErrors,
		m.CachePersistErrors,
		m.CacheEntries,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		BatchesTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crisis_locator", Name: "batches_total"}, []string{"category"}),
		BatchDuration:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "crisis_locator", Name: "batch_duration_seconds"}, []string{"category"}),
		ItemsResolved:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crisis_locator", Name: "items_resolved_total"}, []string{"category", "outcome"}),
		ItemFaults:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crisis_locator", Name: "item_faults_total"}),
		LookupRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crisis_locator", Name: "lookup_requests_total"}, []string{"method"}),
		LookupAPIDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "crisis_locator", Name: "lookup_api_duration_seconds"}, []string{"stage"}),
		LookupEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crisis_locator", Name: "lookup_enabled"}),
		CacheLoadErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crisis_locator", Name: "cache_load_errors_total"}),
		CachePersistErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crisis_locator", Name: "cache_persist_errors_total"}),
		CacheEntries:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crisis_locator", Name: "cache_entries"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crisis_locator", Name: "publish_errors_total"}),
	}
}
