package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

// Outcome labels shared by the assignment and swap counters.
const (
	OutcomePreview      = "preview"
	OutcomeCommitted    = "committed"
	OutcomeRequested    = "requested"
	OutcomeAccepted     = "accepted"
	OutcomeRejected     = "rejected"
	OutcomeInsufficient = "insufficient"
	OutcomeIneligible   = "ineligible"
	OutcomeConflict     = "conflict"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic and
// proctoring decisions.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	assignments     *prometheus.CounterVec
	overrides       *prometheus.CounterVec
	swaps           *prometheus.CounterVec
	lockWait        prometheus.Histogram
}

// NewMetricsService registers the collectors on a private registry.
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

	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "proctor_assignments_total",
		Help: "Proctor assignment attempts by mode and outcome",
	}, []string{"mode", "outcome"})

	overrides := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "proctor_override_total",
		Help: "Committed assignments that relaxed a soft constraint",
	}, []string{"category"})

	swaps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "proctor_swaps_total",
		Help: "Swap operations by kind and outcome",
	}, []string{"kind", "outcome"})

	lockWait := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "proctor_lock_wait_seconds",
		Help:    "Time spent waiting for the per-exam lock",
		Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, assignments, overrides, swaps, lockWait, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		assignments:     assignments,
		overrides:       overrides,
		swaps:           swaps,
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
}

// RecordAssignment counts one assignment attempt.
func (m *MetricsService) RecordAssignment(mode models.AssignmentMode, outcome string) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(string(mode), outcome).Inc()
}

// RecordOverrides counts each soft constraint a committed assignment relaxed.
func (m *MetricsService) RecordOverrides(info models.OverrideInfo) {
	if m == nil || !info.Any() {
		return
	}
	if info.Consecutive {
		m.overrides.WithLabelValues("consecutive").Inc()
	}
	if info.MSPhD {
		m.overrides.WithLabelValues("ms_phd").Inc()
	}
	if info.Department {
		m.overrides.WithLabelValues("department").Inc()
	}
}

// RecordSwap counts one swap operation.
func (m *MetricsService) RecordSwap(kind models.SwapKind, outcome string) {
	if m == nil {
		return
	}
	m.swaps.WithLabelValues(string(kind), outcome).Inc()
}

// ObserveLockWait records how long a caller waited for an exam lock.
func (m *MetricsService) ObserveLockWait(duration time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.Observe(duration.Seconds())
}
