package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/dto"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
	appErrors "github.com/nowoterra-oss/EducationPortal-sub004/pkg/errors"
)

func cancelOn(date string) dto.CancelLessonRequest {
	return dto.CancelLessonRequest{CancelDate: strPtr(date)}
}

func tuesdaySeries(t *testing.T, f *schedulingFixture) models.LessonSeries {
	t.Helper()
	return seedSeries(t, f.lessonRepo, models.LessonSeries{
		Kind: models.LessonIndividual, TeacherID: 9, ParticipantIDs: []int64{7},
		Window: weekly(time.Tuesday, "15:00", "16:00"), SeriesStartDate: clock.Date(2026, 10, 20),
	})
}

func TestCancelOccurrence(t *testing.T) {
	f := newSchedulingFixture(LessonSchedulerConfig{})
	ctx := context.Background()
	series := tuesdaySeries(t, f)

	ok, err := f.cancellation.CancelLesson(ctx, series.ID, cancelOn("2026-10-27"))
	require.NoError(t, err)
	assert.True(t, ok)

	occurs, found, err := f.registry.OccursOn(ctx, series.ID, clock.Date(2026, 10, 27))
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, occurs)

	occurs, _, err = f.registry.OccursOn(ctx, series.ID, clock.Date(2026, 11, 3))
	require.NoError(t, err)
	assert.True(t, occurs, "other weeks are untouched")

	ok, err = f.cancellation.CancelLesson(ctx, series.ID, cancelOn("2026-10-27"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, f.lessonRepo.get(series.ID).CancelledDates, 1, "repeat cancellation adds nothing")
	assert.Equal(t, uint64(1), f.metrics.Snapshot(time.Now()).Cancellations)
}

func TestCancelOccurrenceRejections(t *testing.T) {
	f := newSchedulingFixture(LessonSchedulerConfig{})
	ctx := context.Background()
	series := tuesdaySeries(t, f)

	_, err := f.cancellation.CancelLesson(ctx, series.ID, dto.CancelLessonRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrMissingCancelDate))

	_, err = f.cancellation.CancelLesson(ctx, series.ID, cancelOn("27/10/2026"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = f.cancellation.CancelLesson(ctx, series.ID, cancelOn("2026-10-21"))
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCancelDate), "Wednesday has no occurrence")

	_, err = f.cancellation.CancelLesson(ctx, series.ID, cancelOn("2026-10-13"))
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCancelDate), "past dates are rejected")

	assert.Empty(t, f.lessonRepo.get(series.ID).CancelledDates)
}

func TestCancelOccurrenceTodayVersusYesterday(t *testing.T) {
	f := newSchedulingFixture(LessonSchedulerConfig{})
	ctx := context.Background()
	sunday := seedSeries(t, f.lessonRepo, models.LessonSeries{
		Kind: models.LessonGroup, TeacherID: 9, ParticipantIDs: []int64{7, 8},
		Window: weekly(time.Sunday, "18:00", "19:00"), SeriesStartDate: clock.Date(2026, 10, 4),
	})

	ok, err := f.cancellation.CancelLesson(ctx, sunday.ID, cancelOn("2026-10-18"))
	require.NoError(t, err)
	assert.True(t, ok, "today is cancellable")

	f.clock.Advance(24 * time.Hour)
	_, err = f.cancellation.CancelLesson(ctx, sunday.ID, cancelOn("2026-10-18"))
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCancelDate), "yesterday is not")
}

func TestCancelWholeSeries(t *testing.T) {
	f := newSchedulingFixture(LessonSchedulerConfig{})
	ctx := context.Background()
	series := seedSeries(t, f.lessonRepo, models.LessonSeries{
		Kind: models.LessonIndividual, TeacherID: 9, ParticipantIDs: []int64{7},
		Window: weekly(time.Tuesday, "15:00", "16:00"), SeriesStartDate: clock.Date(2026, 9, 1),
	})

	ok, err := f.cancellation.CancelLesson(ctx, series.ID, dto.CancelLessonRequest{CancelAll: true})
	require.NoError(t, err)
	assert.True(t, ok)

	stored := f.lessonRepo.get(series.ID)
	assert.False(t, stored.IsActive)
	require.NotNil(t, stored.DeactivatedOn)
	assert.Equal(t, clock.Date(2026, 10, 18), *stored.DeactivatedOn)

	assert.False(t, stored.OccursOn(clock.Date(2026, 10, 20)))
	assert.True(t, stored.OccurredOn(clock.Date(2026, 10, 13)), "history is kept")

	busy, err := f.registry.HasConflict(ctx, 9, models.OwnerTeacher, weekly(time.Tuesday, "15:00", "16:00"), nil)
	require.NoError(t, err)
	assert.False(t, busy)

	ok, err = f.cancellation.CancelLesson(ctx, series.ID, dto.CancelLessonRequest{CancelAll: true})
	require.NoError(t, err)
	assert.True(t, ok, "cancelling twice still reports success")
	assert.Equal(t, uint64(1), f.metrics.Snapshot(time.Now()).Cancellations)

	_, err = f.cancellation.CancelLesson(ctx, series.ID, cancelOn("2026-10-27"))
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCancelDate), "inactive series have no occurrences")
}

func TestCancelUnknownSeries(t *testing.T) {
	f := newSchedulingFixture(LessonSchedulerConfig{})
	ok, err := f.cancellation.CancelLesson(context.Background(), 404, dto.CancelLessonRequest{CancelAll: true})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.cancellation.CancelLesson(context.Background(), 404, cancelOn("2026-10-20"))
	require.NoError(t, err)
	assert.False(t, ok)
}
