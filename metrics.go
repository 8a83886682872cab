package backendapi

import (
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the dispatch pipeline's
// lifecycle. It is safe for concurrent use; all record methods are nil-safe
// so callers never guard them.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	duplicateIntercepts *prometheus.CounterVec

	gateQueueDepth prometheus.Gauge
	loadingActive  prometheus.Gauge

	endpointLoads *prometheus.CounterVec

	errorsTotal *prometheus.CounterVec

	registry prometheus.Registerer
}

// NewMetricsCollector creates a collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "backendapi_requests_total",
				Help: "Total number of dispatched requests",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backendapi_request_duration_seconds",
				Help:    "Duration of dispatched requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "backendapi_requests_in_flight",
				Help: "Number of requests currently awaiting a transport outcome",
			},
			[]string{"method", "endpoint"},
		),
		cacheHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "backendapi_cache_hits_total",
				Help: "Total number of calls short-circuited by the response cache",
			},
			[]string{"method", "endpoint"},
		),
		cacheMisses: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "backendapi_cache_misses_total",
				Help: "Total number of cache lookups that missed",
			},
			[]string{"method", "endpoint"},
		),
		duplicateIntercepts: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "backendapi_duplicate_intercepts_total",
				Help: "Total number of calls blocked because an identical request was in flight",
			},
			[]string{"method", "endpoint"},
		),
		gateQueueDepth: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "backendapi_gate_queue_depth",
				Help: "Number of calls queued behind the deferred configuration gate",
			},
		),
		loadingActive: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "backendapi_loading_indicator_active",
				Help: "Whether the loading indicator is currently shown (0 or 1)",
			},
		),
		endpointLoads: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "backendapi_endpoint_loads_total",
				Help: "Total number of remote endpoint configuration loads",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "backendapi_errors_total",
				Help: "Total number of terminal failures by category",
			},
			[]string{"category", "method", "endpoint"},
		),
		registry: registry,
	}
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}
	code := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, code, endpoint).Inc()
	mc.requestDuration.WithLabelValues(method, code, endpoint).Observe(duration.Seconds())
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordCacheHit increments the cache hit counter.
func (mc *MetricsCollector) RecordCacheHit(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.cacheHits.WithLabelValues(method, endpoint).Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (mc *MetricsCollector) RecordCacheMiss(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.cacheMisses.WithLabelValues(method, endpoint).Inc()
}

// RecordDuplicateIntercept increments the duplicate interception counter.
func (mc *MetricsCollector) RecordDuplicateIntercept(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.duplicateIntercepts.WithLabelValues(method, endpoint).Inc()
}

// RecordGateDepth sets the deferred gate queue depth gauge.
func (mc *MetricsCollector) RecordGateDepth(depth int) {
	if mc == nil {
		return
	}
	mc.gateQueueDepth.Set(float64(depth))
}

// RecordLoadingState sets the loading indicator gauge.
func (mc *MetricsCollector) RecordLoadingState(shown bool) {
	if mc == nil {
		return
	}
	if shown {
		mc.loadingActive.Set(1)
	} else {
		mc.loadingActive.Set(0)
	}
}

// RecordEndpointLoad increments the remote configuration load counter.
func (mc *MetricsCollector) RecordEndpointLoad(outcome string) {
	if mc == nil {
		return
	}
	mc.endpointLoads.WithLabelValues(outcome).Inc()
}

// RecordError increments the error counter for a failure category.
func (mc *MetricsCollector) RecordError(category Category, method, endpoint string) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(string(category), method, endpoint).Inc()
}

// GetRegistry exposes the underlying registerer, when it is a full registry.
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	if reg, ok := mc.registry.(*prometheus.Registry); ok {
		return reg
	}
	return nil
}

// endpointLabel derives a low-cardinality host+path label from a URL, used
// for all per-endpoint metric series.
func endpointLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		if rawURL == "" {
			return "unknown"
		}
		return rawURL
	}
	endpoint := u.Host
	if u.Path != "" && u.Path != "/" {
		endpoint += u.Path
	} else {
		endpoint += "/"
	}
	return endpoint
}
