package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay bounds TimeOfDay; windows never cross midnight.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hours and minutes.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM". "24:00" is accepted as an end-of-day bound.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time of day %q: expected HH:MM", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || minute < 0 || minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("time of day %q out of range", raw)
	}
	return NewTimeOfDay(hour, minute), nil
}

// Valid reports whether t lies within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= MinutesPerDay
}

// String renders HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalJSON encodes the time as "HH:MM".
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes "HH:MM".
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeWindow is a half-open [Start, End) interval on a weekday.
type TimeWindow struct {
	DayOfWeek time.Weekday `json:"day_of_week"`
	Start     TimeOfDay    `json:"start"`
	End       TimeOfDay    `json:"end"`
}

// ErrInvalidTimeWindow is returned by TimeWindow.Validate.
var ErrInvalidTimeWindow = errors.New("time window start must be before end")

// Validate checks the window invariants.
func (w TimeWindow) Validate() error {
	if w.DayOfWeek < time.Sunday || w.DayOfWeek > time.Saturday {
		return fmt.Errorf("day of week %d out of range: %w", w.DayOfWeek, ErrInvalidTimeWindow)
	}
	if !w.Start.Valid() || !w.End.Valid() {
		return fmt.Errorf("window %s out of range: %w", w, ErrInvalidTimeWindow)
	}
	if w.Start >= w.End {
		return ErrInvalidTimeWindow
	}
	return nil
}

// Duration is the length of the window.
func (w TimeWindow) Duration() time.Duration {
	return time.Duration(w.End-w.Start) * time.Minute
}

// String renders e.g. "Tuesday 15:00-16:00".
func (w TimeWindow) String() string {
	return fmt.Sprintf("%s %s-%s", w.DayOfWeek, w.Start, w.End)
}

// Overlaps reports whether two windows share any instant. Touching endpoints
// do not overlap.
func Overlaps(a, b TimeWindow) bool {
	return a.DayOfWeek == b.DayOfWeek && a.Start < b.End && b.Start < a.End
}

// Contains reports whether inner lies entirely within outer.
func Contains(outer, inner TimeWindow) bool {
	return outer.DayOfWeek == inner.DayOfWeek && outer.Start <= inner.Start && inner.End <= outer.End
}

// Intersect returns the common part of two windows and false when they do not
// overlap.
func Intersect(a, b TimeWindow) (TimeWindow, bool) {
	if a.DayOfWeek != b.DayOfWeek {
		return TimeWindow{}, false
	}
	out := TimeWindow{DayOfWeek: a.DayOfWeek, Start: a.Start, End: a.End}
	if b.Start > out.Start {
		out.Start = b.Start
	}
	if b.End < out.End {
		out.End = b.End
	}
	if out.Start >= out.End {
		return TimeWindow{}, false
	}
	return out, true
}

// Less orders windows by (day, start, end).
func (w TimeWindow) Less(other TimeWindow) bool {
	if w.DayOfWeek != other.DayOfWeek {
		return w.DayOfWeek < other.DayOfWeek
	}
	if w.Start != other.Start {
		return w.Start < other.Start
	}
	return w.End < other.End
}
