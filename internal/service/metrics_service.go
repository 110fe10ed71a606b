package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	lessonsCreated  *prometheus.CounterVec
	conflicts       prometheus.Counter
	cancellations   *prometheus.CounterVec
	lockWait        *prometheus.HistogramVec

	cacheHitCount  uint64
	cacheMissCount uint64
	requestCount   uint64
	createdCount   uint64
	conflictCount  uint64
	cancelCount    uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	lessonsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lessons_created_total",
		Help: "Lesson series committed by the scheduler",
	}, []string{"kind"})

	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduling_conflicts_total",
		Help: "Create requests rejected because of an overlapping series",
	})

	cancellations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lesson_cancellations_total",
		Help: "Applied lesson cancellations",
	}, []string{"scope"})

	lockWait := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "owner_lock_wait_seconds",
		Help:    "Time spent acquiring owner locks",
		Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHits, cacheMisses,
		lessonsCreated, conflicts, cancellations, lockWait, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		lessonsCreated:  lessonsCreated,
		conflicts:       conflicts,
		cancellations:   cancellations,
		lockWait:        lockWait,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
}

// RecordCacheOperation records cache hit/miss metrics.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordLessonCreated counts a committed series.
func (m *MetricsService) RecordLessonCreated(kind models.LessonKind) {
	if m == nil {
		return
	}
	m.lessonsCreated.WithLabelValues(string(kind)).Inc()
	atomic.AddUint64(&m.createdCount, 1)
}

// RecordConflict counts a create rejected with a scheduling conflict.
func (m *MetricsService) RecordConflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
	atomic.AddUint64(&m.conflictCount, 1)
}

// RecordCancellation counts an applied cancellation; scope is "series" or "occurrence".
func (m *MetricsService) RecordCancellation(scope string) {
	if m == nil {
		return
	}
	m.cancellations.WithLabelValues(scope).Inc()
	atomic.AddUint64(&m.cancelCount, 1)
}

// ObserveLockWait records how long owner locks took to acquire.
func (m *MetricsService) ObserveLockWait(acquired bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "acquired"
	if !acquired {
		outcome = "failed"
	}
	m.lockWait.WithLabelValues(outcome).Observe(duration.Seconds())
}

// Snapshot returns aggregated counters for the metrics summary endpoint.
func (m *MetricsService) Snapshot(now time.Time) models.MetricsSnapshot {
	if m == nil {
		return models.MetricsSnapshot{GeneratedAt: now}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)

	var ratio float64
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}

	return models.MetricsSnapshot{
		RequestsTotal:       atomic.LoadUint64(&m.requestCount),
		CacheHits:           hits,
		CacheMisses:         misses,
		CacheHitRatio:       ratio,
		LessonsCreated:      atomic.LoadUint64(&m.createdCount),
		SchedulingConflicts: atomic.LoadUint64(&m.conflictCount),
		Cancellations:       atomic.LoadUint64(&m.cancelCount),
		Goroutines:          runtime.NumGoroutine(),
		GeneratedAt:         now,
	}
}
