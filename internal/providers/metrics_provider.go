package providers

import (
	"archivist/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(store string, duration time.Duration)
	IncBackups(trigger string, err error)
	IncRestores(err error)
	AddImportedPrompts(count int)
	SetBackupsRetained(count int)
	SetPromptsTotal(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration *prometheus.HistogramVec
	backupsTotal        *prometheus.CounterVec
	restoresTotal       *prometheus.CounterVec
	importedPrompts     prometheus.Counter
	backupsRetained     prometheus.Gauge
	promptsTotal        prometheus.Gauge
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

func (m *MetricsProvider) ObservePersistenceDuration(store string, duration time.Duration) {
	m.persistenceDuration.WithLabelValues(store).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncBackups(trigger string, err error) {
	m.backupsTotal.WithLabelValues(trigger, resultLabel(err)).Inc()
}

func (m *MetricsProvider) IncRestores(err error) {
	m.restoresTotal.WithLabelValues(resultLabel(err)).Inc()
}

func (m *MetricsProvider) AddImportedPrompts(count int) {
	m.importedPrompts.Add(float64(count))
}

func (m *MetricsProvider) SetBackupsRetained(count int) {
	m.backupsRetained.Set(float64(count))
}

func (m *MetricsProvider) SetPromptsTotal(count int) {
	m.promptsTotal.Set(float64(count))
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
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
			Name: "archivist_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "archivist_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "archivist_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "archivist_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "archivist_persistence_duration_seconds",
			Help:    "Duration of store file writes in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"store"}),

		backupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "archivist_backups_total",
			Help: "Total number of backup attempts",
		}, []string{"trigger", "result"}),

		restoresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "archivist_restores_total",
			Help: "Total number of restore attempts",
		}, []string{"result"}),

		importedPrompts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "archivist_imported_prompts_total",
			Help: "Total number of prompts imported",
		}),

		backupsRetained: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "archivist_backups_retained",
			Help: "Number of snapshots currently held in the backup store",
		}),

		promptsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "archivist_prompts_total",
			Help: "Number of prompts in the primary store",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) IncCacheHits()                                        {}
func (n *noopMetrics) IncCacheMisses()                                      {}
func (n *noopMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncBackups(_ string, _ error)                         {}
func (n *noopMetrics) IncRestores(_ error)                                  {}
func (n *noopMetrics) AddImportedPrompts(_ int)                             {}
func (n *noopMetrics) SetBackupsRetained(_ int)                             {}
func (n *noopMetrics) SetPromptsTotal(_ int)                                {}
