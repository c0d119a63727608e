package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/grievance-api/internal/models"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()
	m.RecordSubmission("univ-1")
	m.RecordSubmission("univ-1")
	m.RecordStatusUpdate(models.GrievanceStatusResolved)
	m.RecordLookup(true)
	m.RecordLookup(false)
	m.RecordLookup(false)
	m.ObserveHTTPRequest(http.MethodGet, "/health", http.StatusOK, 20*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.GrievancesSubmitted)
	assert.Equal(t, uint64(1), snap.StatusUpdates)
	assert.Equal(t, uint64(1), snap.RequestsTotal)
	assert.InDelta(t, 20.0, snap.AverageRequestDurationMs, 0.001)
	assert.InDelta(t, 1.0/3.0, snap.LookupHitRatio, 0.0001)
}

func TestMetricsServiceHandlerExposesGrievanceSeries(t *testing.T) {
	m := NewMetricsService()
	m.RecordSubmission("univ-1")
	m.lookups.WithLabelValues("miss")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `grievances_submitted_total{institution="univ-1"} 1`)
	assert.Contains(t, body, `grievance_lookups_total{result="miss"} 0`)
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.RecordSubmission("x")
	m.RecordLookup(true)
	assert.Equal(t, models.SystemMetrics{}, m.Snapshot())

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
