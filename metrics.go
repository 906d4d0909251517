package kurir

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the dispatch lifecycle.
// All record methods are safe on a nil receiver, so instrumentation calls
// need no guards. It is safe for concurrent use.
type MetricsCollector struct {
	dispatchesTotal    *prometheus.CounterVec
	dispatchDuration   *prometheus.HistogramVec
	dispatchesInFlight *prometheus.GaugeVec

	interceptorRejections *prometheus.CounterVec
	validationFailures    *prometheus.CounterVec
	cancellationsTotal    *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	mc := &MetricsCollector{
		dispatchesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kurir_dispatches_total",
				Help: "Total number of dispatches by outcome",
			},
			[]string{"method", "outcome", "endpoint"},
		),
		dispatchDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kurir_dispatch_duration_seconds",
				Help:    "Duration of dispatches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "outcome", "endpoint"},
		),
		dispatchesInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kurir_dispatches_in_flight",
				Help: "Number of dispatches currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		interceptorRejections: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kurir_interceptor_rejections_total",
				Help: "Total number of interceptor fulfillment handlers that returned an error",
			},
			[]string{"phase"},
		),
		validationFailures: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kurir_validation_failures_total",
				Help: "Total number of dispatches rejected by option validation",
			},
			[]string{"key"},
		),
		cancellationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kurir_cancellations_total",
				Help: "Total number of dispatches settled by cancellation",
			},
			[]string{"method", "endpoint"},
		),
	}

	if reg, ok := registry.(*prometheus.Registry); ok {
		mc.registry = reg
	}

	return mc
}

// RecordDispatchStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordDispatchStart(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.dispatchesInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordDispatchEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordDispatchEnd(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.dispatchesInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordDispatch records dispatch count and duration by outcome.
func (mc *MetricsCollector) RecordDispatch(method, endpoint, outcome string, duration time.Duration) {
	if mc == nil {
		return
	}
	mc.dispatchesTotal.WithLabelValues(method, outcome, endpoint).Inc()
	mc.dispatchDuration.WithLabelValues(method, outcome, endpoint).Observe(duration.Seconds())
}

// RecordInterceptorRejection increments the rejection counter for a chain
// phase ("request" or "response").
func (mc *MetricsCollector) RecordInterceptorRejection(phase string) {
	if mc == nil {
		return
	}
	mc.interceptorRejections.WithLabelValues(phase).Inc()
}

// RecordValidationFailure increments the validation failure counter for an
// option key.
func (mc *MetricsCollector) RecordValidationFailure(key string) {
	if mc == nil {
		return
	}
	mc.validationFailures.WithLabelValues(key).Inc()
}

// RecordCancellation increments the cancellation counter.
func (mc *MetricsCollector) RecordCancellation(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.cancellationsTotal.WithLabelValues(method, endpoint).Inc()
}

// GetRegistry exposes the underlying prometheus registry, when the collector
// was built on one.
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	return mc.registry
}
