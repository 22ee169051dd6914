package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

func TestMetricsServiceCounters(t *testing.T) {
	metrics := NewMetricsService()

	metrics.RecordAssignment(models.AssignmentModeAutomatic, OutcomeCommitted)
	metrics.RecordAssignment(models.AssignmentModeAutomatic, OutcomeCommitted)
	metrics.RecordAssignment(models.AssignmentModeManual, OutcomeIneligible)
	metrics.RecordOverrides(models.OverrideInfo{MSPhD: true, Department: true})
	metrics.RecordOverrides(models.OverrideInfo{})
	metrics.RecordSwap(models.SwapKindPeer, OutcomeRequested)
	metrics.ObserveLockWait(20 * time.Millisecond)
	metrics.ObserveHTTPRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.assignments.WithLabelValues("automatic", OutcomeCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.assignments.WithLabelValues("manual", OutcomeIneligible)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.overrides.WithLabelValues("consecutive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.overrides.WithLabelValues("ms_phd")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.overrides.WithLabelValues("department")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.swaps.WithLabelValues("peer", OutcomeRequested)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestTotal.WithLabelValues(http.MethodGet, "/health", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.lockWait))

	count, err := testutil.GatherAndCount(metrics.Registry(), "proctor_swaps_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService

	assert.NotPanics(t, func() {
		metrics.RecordAssignment(models.AssignmentModeManual, OutcomeConflict)
		metrics.RecordOverrides(models.OverrideInfo{Consecutive: true})
		metrics.RecordSwap(models.SwapKindStaff, OutcomeAccepted)
		metrics.ObserveLockWait(time.Second)
		metrics.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Second)
	})

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
