package providers

import (
	"personad/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveStorageDuration(op, key string, duration time.Duration)
	IncStorageFallbacks(key string)
	SetPersonasTotal(count int)
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	storageDuration  *prometheus.HistogramVec
	storageFallbacks *prometheus.CounterVec
	personasTotal    prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveStorageDuration(op, key string, duration time.Duration) {
	m.storageDuration.WithLabelValues(op, key).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncStorageFallbacks(key string) {
	m.storageFallbacks.WithLabelValues(key).Inc()
}

func (m *MetricsProvider) SetPersonasTotal(count int) {
	m.personasTotal.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "personad_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "personad_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "personad_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "personad_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		storageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "personad_storage_duration_seconds",
			Help:    "Duration of durable storage operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "key"}),

		storageFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "personad_storage_fallbacks_total",
			Help: "Reads that fell back to seed data because the stored value was unreadable",
		}, []string{"key"}),

		personasTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "personad_personas_total",
			Help: "Number of personas in the last persisted collection",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                    {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)    {}
func (n *noopMetrics) IncCacheHits()                                       {}
func (n *noopMetrics) IncCacheMisses()                                     {}
func (n *noopMetrics) ObserveStorageDuration(_, _ string, _ time.Duration) {}
func (n *noopMetrics) IncStorageFallbacks(_ string)                        {}
func (n *noopMetrics) SetPersonasTotal(_ int)                              {}
