package models

import (
	"sort"
	"time"

	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
)

// LessonKind tags a series as individual or group. Both kinds share one record
// shape and one conflict policy.
type LessonKind string

const (
	LessonIndividual LessonKind = "INDIVIDUAL"
	LessonGroup      LessonKind = "GROUP"
)

// Valid reports whether k is a known lesson kind.
func (k LessonKind) Valid() bool {
	return k == LessonIndividual || k == LessonGroup
}

// LessonSeries is a weekly recurring lesson: a rule (window plus date bounds)
// and a small set of exception dates.
type LessonSeries struct {
	ID              int64       `json:"id"`
	Kind            LessonKind  `json:"kind"`
	TeacherID       int64       `json:"teacher_id"`
	ParticipantIDs  []int64     `json:"participant_ids"`
	Window          TimeWindow  `json:"window"`
	SeriesStartDate time.Time   `json:"series_start_date"`
	SeriesEndDate   *time.Time  `json:"series_end_date,omitempty"`
	CancelledDates  []time.Time `json:"cancelled_dates"`
	IsActive        bool        `json:"is_active"`
	DeactivatedOn   *time.Time  `json:"deactivated_on,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// HasParticipant reports whether studentID attends the series.
func (s *LessonSeries) HasParticipant(studentID int64) bool {
	for _, id := range s.ParticipantIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// OwnedBy reports whether the person takes part in the series in the given role.
func (s *LessonSeries) OwnedBy(ownerID int64, kind OwnerKind) bool {
	switch kind {
	case OwnerTeacher:
		return s.TeacherID == ownerID
	case OwnerStudent:
		return s.HasParticipant(ownerID)
	default:
		return false
	}
}

// IsCancelledOn reports whether date is an exception date.
func (s *LessonSeries) IsCancelledOn(date time.Time) bool {
	date = clock.DateOf(date)
	for _, d := range s.CancelledDates {
		if clock.DateOf(d).Equal(date) {
			return true
		}
	}
	return false
}

// fallsOnRule reports whether date is generated by the recurrence rule,
// ignoring exceptions and the active flag.
func (s *LessonSeries) fallsOnRule(date time.Time) bool {
	date = clock.DateOf(date)
	start := clock.DateOf(s.SeriesStartDate)
	if date.Before(start) {
		return false
	}
	if date.Weekday() != s.Window.DayOfWeek {
		return false
	}
	if clock.DaysBetween(start, date)%7 != 0 {
		return false
	}
	if s.SeriesEndDate != nil && date.After(clock.DateOf(*s.SeriesEndDate)) {
		return false
	}
	return true
}

// OccursOn reports whether the series has a live occurrence on date.
func (s *LessonSeries) OccursOn(date time.Time) bool {
	if s == nil || !s.IsActive {
		return false
	}
	return s.fallsOnRule(date) && !s.IsCancelledOn(date)
}

// OccurredOn is OccursOn extended with history: a deactivated series still
// reports occurrences dated before its deactivation.
func (s *LessonSeries) OccurredOn(date time.Time) bool {
	if s == nil {
		return false
	}
	if s.IsActive {
		return s.OccursOn(date)
	}
	if s.DeactivatedOn == nil || !clock.DateOf(date).Before(clock.DateOf(*s.DeactivatedOn)) {
		return false
	}
	return s.fallsOnRule(date) && !s.IsCancelledOn(date)
}

// NextOccurrence returns the first live occurrence on or after from.
func (s *LessonSeries) NextOccurrence(from time.Time) (time.Time, bool) {
	if s == nil || !s.IsActive {
		return time.Time{}, false
	}
	from = clock.DateOf(from)
	start := clock.DateOf(s.SeriesStartDate)
	candidate := start
	if from.After(start) {
		weeks := (clock.DaysBetween(start, from) + 6) / 7
		candidate = start.AddDate(0, 0, 7*weeks)
	}
	// The exception set is finite, so an open-ended series always yields a
	// date after len(CancelledDates)+1 steps.
	limit := len(s.CancelledDates) + 1
	for i := 0; i <= limit; i++ {
		if s.SeriesEndDate != nil && candidate.After(clock.DateOf(*s.SeriesEndDate)) {
			return time.Time{}, false
		}
		if s.OccursOn(candidate) {
			return candidate, true
		}
		candidate = candidate.AddDate(0, 0, 7)
	}
	return time.Time{}, false
}

// IsActiveAsOf reports whether the series is active and still has an
// occurrence on or after today.
func (s *LessonSeries) IsActiveAsOf(today time.Time) bool {
	_, ok := s.NextOccurrence(today)
	return ok
}

// LessonOccurrence is one concrete dated instance of a series.
type LessonOccurrence struct {
	SeriesID       int64      `json:"series_id"`
	Kind           LessonKind `json:"kind"`
	TeacherID      int64      `json:"teacher_id"`
	ParticipantIDs []int64    `json:"participant_ids"`
	Date           time.Time  `json:"date"`
	Start          TimeOfDay  `json:"start"`
	End            TimeOfDay  `json:"end"`
}

// SortLessonOccurrences orders occurrences by (date, start, series id).
func SortLessonOccurrences(items []LessonOccurrence) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.SeriesID < b.SeriesID
	})
}

// MatchResult is a mutually free, conflict-free weekly window.
type MatchResult struct {
	DayOfWeek     time.Weekday `json:"day_of_week"`
	Window        TimeWindow   `json:"window"`
	AvailableFrom time.Time    `json:"available_from"`
}

// ConflictCheckResult is the outcome of a scheduling dry run.
type ConflictCheckResult struct {
	HasConflicts         bool    `json:"has_conflicts"`
	ConflictingSeriesIDs []int64 `json:"conflicting_series_ids"`
}

// SchedulingConflictError is returned when a new series would double-book a
// teacher or student.
type SchedulingConflictError struct {
	Message              string  `json:"message"`
	ConflictingSeriesIDs []int64 `json:"conflicting_series_ids"`
}

// Error implements the error interface for conflict errors.
func (e *SchedulingConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
