package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
)

// Metrics holds all Prometheus metrics for the BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	guardRedirects  *prometheus.CounterVec
	historyLoads    *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "salao_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salao_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salao_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salao_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		guardRedirects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salao_guard_redirects_total",
				Help: "Total route-guard redirect decisions by target.",
			},
			[]string{"target"},
		),
		historyLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salao_history_loads_total",
				Help: "Total performed-service aggregations by outcome.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrGuardRedirect increments the redirect counter for a target route.
func (m *Metrics) IncrGuardRedirect(target string) {
	m.guardRedirects.WithLabelValues(target).Inc()
}

// IncrHistoryLoad increments the aggregation counter with an outcome label.
func (m *Metrics) IncrHistoryLoad(status string) {
	m.historyLoads.WithLabelValues(status).Inc()
}

// GetUsageSnapshot returns a snapshot of aggregation/session metrics suitable
// for the GET /v1/metrics/usage endpoint.
func (m *Metrics) GetUsageSnapshot() *domain.UsageMetrics {
	// Prometheus counters expose cumulative values.
	loadsOK := getCounterValue(m.historyLoads, "success")
	loadsErr := getCounterValue(m.historyLoads, "error")
	sessionHits := getCounterValue(m.cacheHits, "session")
	sessionMisses := getCounterValue(m.cacheMisses, "session")

	total := loadsOK + loadsErr
	errorRate := float64(0)
	cacheHitRate := float64(0)

	if total > 0 {
		errorRate = loadsErr / total
	}
	if sessionHits+sessionMisses > 0 {
		cacheHitRate = sessionHits / (sessionHits + sessionMisses)
	}

	return &domain.UsageMetrics{
		HistoryLoads:        int64(total),
		HistoryErrorRate:    errorRate,
		SessionCacheHitRate: cacheHitRate,
		Period:              "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
