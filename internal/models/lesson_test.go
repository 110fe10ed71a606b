package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
)

func tuesdaySeries() *LessonSeries {
	return &LessonSeries{
		ID:              1,
		Kind:            LessonIndividual,
		TeacherID:       10,
		ParticipantIDs:  []int64{20},
		Window:          tw(time.Tuesday, "15:00", "16:00"),
		SeriesStartDate: clock.Date(2026, 10, 20),
		IsActive:        true,
	}
}

func TestOccursOn(t *testing.T) {
	s := tuesdaySeries()
	assert.True(t, s.OccursOn(clock.Date(2026, 10, 20)))
	assert.True(t, s.OccursOn(clock.Date(2026, 10, 27)))
	assert.True(t, s.OccursOn(clock.Date(2027, 3, 2)))
	assert.False(t, s.OccursOn(clock.Date(2026, 10, 13)), "before start")
	assert.False(t, s.OccursOn(clock.Date(2026, 10, 21)), "wrong weekday")

	end := clock.Date(2026, 11, 3)
	s.SeriesEndDate = &end
	assert.True(t, s.OccursOn(end), "end date is inclusive")
	assert.False(t, s.OccursOn(clock.Date(2026, 11, 10)))

	s.CancelledDates = []time.Time{clock.Date(2026, 10, 27)}
	assert.False(t, s.OccursOn(clock.Date(2026, 10, 27)))
	assert.True(t, s.IsActive)

	s.IsActive = false
	assert.False(t, s.OccursOn(clock.Date(2026, 10, 20)))

	var nilSeries *LessonSeries
	assert.False(t, nilSeries.OccursOn(clock.Date(2026, 10, 20)))
}

func TestExceptionRoundTrip(t *testing.T) {
	s := tuesdaySeries()
	d := clock.Date(2026, 11, 10)
	before, after := d.AddDate(0, 0, -7), d.AddDate(0, 0, 7)
	s.CancelledDates = append(s.CancelledDates, d)

	assert.False(t, s.OccursOn(d))
	assert.True(t, s.OccursOn(before))
	assert.True(t, s.OccursOn(after))
}

func TestOccurredOnKeepsHistory(t *testing.T) {
	s := tuesdaySeries()
	on := clock.Date(2026, 11, 5)
	s.IsActive = false
	s.DeactivatedOn = &on
	s.CancelledDates = []time.Time{clock.Date(2026, 10, 27)}

	assert.True(t, s.OccurredOn(clock.Date(2026, 10, 20)))
	assert.False(t, s.OccurredOn(clock.Date(2026, 10, 27)), "cancelled")
	assert.True(t, s.OccurredOn(clock.Date(2026, 11, 3)))
	assert.False(t, s.OccurredOn(clock.Date(2026, 11, 10)), "after deactivation")
}

func TestNextOccurrenceAndActiveAsOf(t *testing.T) {
	s := tuesdaySeries()
	next, ok := s.NextOccurrence(clock.Date(2026, 10, 21))
	assert.True(t, ok)
	assert.Equal(t, clock.Date(2026, 10, 27), next)

	next, ok = s.NextOccurrence(clock.Date(2026, 1, 1))
	assert.True(t, ok)
	assert.Equal(t, clock.Date(2026, 10, 20), next)

	s.CancelledDates = []time.Time{clock.Date(2026, 10, 27), clock.Date(2026, 11, 3)}
	next, _ = s.NextOccurrence(clock.Date(2026, 10, 21))
	assert.Equal(t, clock.Date(2026, 11, 10), next)

	end := clock.Date(2026, 11, 3)
	s.SeriesEndDate = &end
	assert.False(t, s.IsActiveAsOf(clock.Date(2026, 10, 21)), "remaining dates all cancelled")
	assert.True(t, s.IsActiveAsOf(clock.Date(2026, 10, 20)))
	assert.False(t, s.IsActiveAsOf(clock.Date(2026, 11, 4)))
}

func TestOwnedBy(t *testing.T) {
	s := tuesdaySeries()
	s.Kind = LessonGroup
	s.ParticipantIDs = []int64{20, 21}
	assert.True(t, s.OwnedBy(10, OwnerTeacher))
	assert.False(t, s.OwnedBy(10, OwnerStudent))
	assert.True(t, s.OwnedBy(21, OwnerStudent))
	assert.False(t, s.OwnedBy(21, OwnerKind("PARENT")))
}

func TestSortLessonOccurrences(t *testing.T) {
	items := []LessonOccurrence{
		{SeriesID: 3, Date: clock.Date(2026, 10, 21), Start: 600},
		{SeriesID: 2, Date: clock.Date(2026, 10, 20), Start: 900},
		{SeriesID: 1, Date: clock.Date(2026, 10, 20), Start: 900},
		{SeriesID: 4, Date: clock.Date(2026, 10, 20), Start: 480},
	}
	SortLessonOccurrences(items)
	var ids []int64
	for _, it := range items {
		ids = append(ids, it.SeriesID)
	}
	assert.Equal(t, []int64{4, 1, 2, 3}, ids)
}
