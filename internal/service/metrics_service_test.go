package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
)

func TestMetricsServiceExposesSchedulingCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/lessons", http.StatusCreated, 12*time.Millisecond)
	m.RecordLessonCreated(models.LessonGroup)
	m.RecordConflict()
	m.RecordCancellation("occurrence")
	m.ObserveLockWait(true, 3*time.Millisecond)
	m.ObserveLockWait(false, 3*time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	for _, want := range []string{
		`http_requests_total{method="POST",path="/api/v1/lessons",status="201"} 1`,
		`lessons_created_total{kind="GROUP"} 1`,
		`scheduling_conflicts_total 1`,
		`lesson_cancellations_total{scope="occurrence"} 1`,
		`owner_lock_wait_seconds_count{outcome="failed"} 1`,
	} {
		assert.True(t, strings.Contains(text, want), "missing %s", want)
	}

	snapshot := m.Snapshot(time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, uint64(1), snapshot.RequestsTotal)
	assert.Equal(t, uint64(1), snapshot.LessonsCreated)
	assert.Equal(t, uint64(1), snapshot.SchedulingConflicts)
	assert.Equal(t, uint64(1), snapshot.Cancellations)
	assert.Positive(t, snapshot.Goroutines)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.RecordCacheOperation(true, time.Millisecond)
		m.RecordLessonCreated(models.LessonIndividual)
		m.RecordConflict()
		m.RecordCancellation("series")
		m.ObserveLockWait(true, time.Millisecond)
	})
	assert.Zero(t, m.Snapshot(time.Now()).RequestsTotal)
}
