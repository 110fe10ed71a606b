package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
)

func seedSeries(t *testing.T, repo *memLessonRepo, series models.LessonSeries) models.LessonSeries {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &series))
	return series
}

func weekly(day time.Weekday, start, end string) models.TimeWindow {
	s, _ := models.ParseTimeOfDay(start)
	e, _ := models.ParseTimeOfDay(end)
	return models.TimeWindow{DayOfWeek: day, Start: s, End: e}
}

func TestLessonRegistryActiveDefinition(t *testing.T) {
	f := newSchedulingFixture(LessonSchedulerConfig{})
	ctx := context.Background()

	current := seedSeries(t, f.lessonRepo, models.LessonSeries{
		Kind: models.LessonIndividual, TeacherID: 9, ParticipantIDs: []int64{7},
		Window: weekly(time.Tuesday, "15:00", "16:00"), SeriesStartDate: clock.Date(2026, 10, 20),
	})
	pastEnd := clock.Date(2026, 10, 13)
	seedSeries(t, f.lessonRepo, models.LessonSeries{
		Kind: models.LessonIndividual, TeacherID: 9, ParticipantIDs: []int64{8},
		Window: weekly(time.Tuesday, "15:00", "16:00"), SeriesStartDate: clock.Date(2026, 9, 1), SeriesEndDate: &pastEnd,
	})
	stopped := seedSeries(t, f.lessonRepo, models.LessonSeries{
		Kind: models.LessonGroup, TeacherID: 9, ParticipantIDs: []int64{7, 8},
		Window: weekly(time.Monday, "10:00", "11:00"), SeriesStartDate: clock.Date(2026, 10, 19),
	})
	_, err := f.lessonRepo.Deactivate(ctx, stopped.ID, clock.Date(2026, 10, 18))
	require.NoError(t, err)

	active, err := f.registry.ListActiveSeriesFor(ctx, 9, models.OwnerTeacher)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, current.ID, active[0].ID)

	all, err := f.registry.ListSeriesFor(ctx, 9, models.OwnerTeacher)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLessonRegistryHasConflict(t *testing.T) {
	f := newSchedulingFixture(LessonSchedulerConfig{})
	ctx := context.Background()
	group := seedSeries(t, f.lessonRepo, models.LessonSeries{
		Kind: models.LessonGroup, TeacherID: 9, ParticipantIDs: []int64{7, 8},
		Window: weekly(time.Tuesday, "15:00", "16:00"), SeriesStartDate: clock.Date(2026, 10, 20),
	})

	conflict, err := f.registry.HasConflict(ctx, 8, models.OwnerStudent, weekly(time.Tuesday, "15:30", "16:30"), nil)
	require.NoError(t, err)
	assert.True(t, conflict, "group participants are owners too")

	conflict, err = f.registry.HasConflict(ctx, 9, models.OwnerTeacher, weekly(time.Tuesday, "16:00", "17:00"), nil)
	require.NoError(t, err)
	assert.False(t, conflict, "touching windows do not conflict")

	conflict, err = f.registry.HasConflict(ctx, 9, models.OwnerTeacher, weekly(time.Wednesday, "15:00", "16:00"), nil)
	require.NoError(t, err)
	assert.False(t, conflict)

	conflict, err = f.registry.HasConflict(ctx, 9, models.OwnerTeacher, weekly(time.Tuesday, "15:00", "16:00"), &group.ID)
	require.NoError(t, err)
	assert.False(t, conflict, "excluded series is ignored")

	conflict, err = f.registry.HasConflict(ctx, 9, models.OwnerStudent, weekly(time.Tuesday, "15:00", "16:00"), nil)
	require.NoError(t, err)
	assert.False(t, conflict, "teacher id is not a student id")
}

func TestLessonRegistryGetSeriesAndOccursOn(t *testing.T) {
	f := newSchedulingFixture(LessonSchedulerConfig{})
	ctx := context.Background()
	s := seedSeries(t, f.lessonRepo, models.LessonSeries{
		Kind: models.LessonIndividual, TeacherID: 9, ParticipantIDs: []int64{7},
		Window: weekly(time.Tuesday, "15:00", "16:00"), SeriesStartDate: clock.Date(2026, 10, 20),
	})

	missing, err := f.registry.GetSeries(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	occurs, found, err := f.registry.OccursOn(ctx, s.ID, clock.Date(2026, 10, 27))
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, occurs)

	_, found, err = f.registry.OccursOn(ctx, 999, clock.Date(2026, 10, 27))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMergeIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 3, 5}, mergeIDs([]int64{5, 1}, nil, []int64{3, 5}))
	assert.Nil(t, mergeIDs())
}
