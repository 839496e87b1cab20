// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/slotcraft/pkg/observability"
)

const namespace = "slotcraft"

// Metrics records hook events as Prometheus collectors.
type Metrics struct {
	arrangements    *prometheus.CounterVec
	arrangeDuration *prometheus.HistogramVec
	slotsFilled     prometheus.Histogram
	suggestions     *prometheus.CounterVec
	cacheEvents     *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpErrors      *prometheus.CounterVec
	storeOps        *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		arrangements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arrangements_total",
			Help:      "Arrangements computed, by template and outcome.",
		}, []string{"template", "outcome"}),
		arrangeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "arrange_duration_seconds",
			Help:      "Time spent assigning and applying a template.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"template"}),
		slotsFilled: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slots_filled",
			Help:      "Slots filled per arrangement.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Template suggestion requests, by outcome.",
		}, []string{"outcome"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes by key type.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "HTTP requests that failed with a server error.",
		}, []string{"route", "method"}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Design store calls by backend, operation and outcome.",
		}, []string{"backend", "op", "outcome"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of design store calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "op"}),
	}

	reg.MustRegister(
		m.arrangements, m.arrangeDuration, m.slotsFilled, m.suggestions,
		m.cacheEvents, m.cacheBytes,
		m.httpRequests, m.httpDuration, m.httpErrors,
		m.storeOps, m.storeDuration,
	)
	return m
}

// Register installs m as the global arrange, cache, HTTP and store hooks.
func (m *Metrics) Register() {
	observability.SetArrangeHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
	observability.SetStoreHooks(m)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnArrangeStart implements observability.ArrangeHooks.
func (m *Metrics) OnArrangeStart(context.Context, string, int) {}

// OnArrangeComplete implements observability.ArrangeHooks.
func (m *Metrics) OnArrangeComplete(_ context.Context, templateID string, filled int, complete bool, d time.Duration, err error) {
	o := outcome(err)
	if err == nil && !complete {
		o = "incomplete"
	}
	m.arrangements.WithLabelValues(templateID, o).Inc()
	m.arrangeDuration.WithLabelValues(templateID).Observe(d.Seconds())
	if err == nil {
		m.slotsFilled.Observe(float64(filled))
	}
}

// OnSuggestComplete implements observability.ArrangeHooks.
func (m *Metrics) OnSuggestComplete(_ context.Context, _ int, _ time.Duration, err error) {
	m.suggestions.WithLabelValues(outcome(err)).Inc()
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string) {}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// OnError implements observability.HTTPHooks.
func (m *Metrics) OnError(_ context.Context, method, route string, _ error) {
	m.httpErrors.WithLabelValues(route, method).Inc()
}

// OnStoreOp implements observability.StoreHooks.
func (m *Metrics) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	m.storeOps.WithLabelValues(backend, op, outcome(err)).Inc()
	m.storeDuration.WithLabelValues(backend, op).Observe(d.Seconds())
}

var (
	_ observability.ArrangeHooks = (*Metrics)(nil)
	_ observability.CacheHooks   = (*Metrics)(nil)
	_ observability.HTTPHooks    = (*Metrics)(nil)
	_ observability.StoreHooks   = (*Metrics)(nil)
)
