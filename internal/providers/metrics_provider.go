package providers

import (
	"journald/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveSummaryDuration(duration time.Duration)
	IncDigestsSent(kind string)
	IncDigestFailures(timezone string)
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	summaryDuration     prometheus.Histogram
	digestsSent         *prometheus.CounterVec
	digestFailures      *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
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

func (m *MetricsProvider) ObserveSummaryDuration(duration time.Duration) {
	m.summaryDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncDigestsSent(kind string) {
	m.digestsSent.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncDigestFailures(timezone string) {
	m.digestFailures.WithLabelValues(timezone).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
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
			Name: "journald_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "journald_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "journald_summary_cache_hits_total",
			Help: "Total number of summary cache hits",
		}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "journald_summary_cache_misses_total",
			Help: "Total number of summary cache misses",
		}),
		summaryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "journald_summary_generation_seconds",
			Help:    "Duration of LLM summary generation in seconds",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		digestsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "journald_digests_sent_total",
			Help: "Daily digest emails sent, by kind",
		}, []string{"kind"}),
		digestFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "journald_digest_failures_total",
			Help: "Per-user digest failures, by timezone",
		}, []string{"timezone"}),
		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "journald_persistence_duration_seconds",
			Help:    "Duration of local user store persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveSummaryDuration(_ time.Duration)           {}
func (n *noopMetrics) IncDigestsSent(_ string)                          {}
func (n *noopMetrics) IncDigestFailures(_ string)                       {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
