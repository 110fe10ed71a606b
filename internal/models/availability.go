package models

import (
	"sort"
	"time"
)

// OwnerKind distinguishes the two kinds of people the engine schedules.
type OwnerKind string

const (
	OwnerStudent OwnerKind = "STUDENT"
	OwnerTeacher OwnerKind = "TEACHER"
)

// Valid reports whether k is a known owner kind.
func (k OwnerKind) Valid() bool {
	return k == OwnerStudent || k == OwnerTeacher
}

// AvailabilitySlot declares that a person is free at a weekly recurring time.
type AvailabilitySlot struct {
	ID        int64      `json:"id"`
	OwnerID   int64      `json:"owner_id"`
	OwnerKind OwnerKind  `json:"owner_kind"`
	Window    TimeWindow `json:"window"`
	CreatedAt time.Time  `json:"created_at"`
}

// SortAvailabilitySlots orders slots by (day, start, end, id).
func SortAvailabilitySlots(slots []AvailabilitySlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Window != b.Window {
			return a.Window.Less(b.Window)
		}
		return a.ID < b.ID
	})
}
