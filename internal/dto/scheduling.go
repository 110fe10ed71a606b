package dto

import "github.com/nowoterra-oss/EducationPortal-sub004/internal/models"

// CreateAvailabilityRequest declares a weekly free window for a person.
type CreateAvailabilityRequest struct {
	OwnerID   int64            `json:"ownerId" validate:"required,gt=0"`
	OwnerKind models.OwnerKind `json:"ownerKind" validate:"required,oneof=STUDENT TEACHER"`
	DayOfWeek *int             `json:"dayOfWeek" validate:"required,min=0,max=6"`
	StartTime string           `json:"startTime" validate:"required"`
	EndTime   string           `json:"endTime" validate:"required"`
}

// OwnerQuery selects a person by id and role.
type OwnerQuery struct {
	OwnerID   int64            `form:"ownerId" validate:"required,gt=0"`
	OwnerKind models.OwnerKind `form:"ownerKind" validate:"required,oneof=STUDENT TEACHER"`
}

// MatchQuery asks for mutually free windows of a student and a teacher.
type MatchQuery struct {
	StudentID int64 `form:"studentId" validate:"required,gt=0"`
	TeacherID int64 `form:"teacherId" validate:"required,gt=0"`
	DayOfWeek *int  `form:"dayOfWeek" validate:"omitempty,min=0,max=6"`
}

// LessonSeriesRequest describes a weekly lesson to create or dry-run.
type LessonSeriesRequest struct {
	Kind            models.LessonKind `json:"kind" validate:"required,oneof=INDIVIDUAL GROUP"`
	TeacherID       int64             `json:"teacherId" validate:"required,gt=0"`
	ParticipantIDs  []int64           `json:"participantIds" validate:"required,min=1,dive,gt=0"`
	DayOfWeek       *int              `json:"dayOfWeek" validate:"required,min=0,max=6"`
	StartTime       string            `json:"startTime" validate:"required"`
	EndTime         string            `json:"endTime" validate:"required"`
	SeriesStartDate string            `json:"seriesStartDate" validate:"required"`
	SeriesEndDate   *string           `json:"seriesEndDate" validate:"omitempty"`
}

// CancelLessonRequest cancels one occurrence or the whole series.
type CancelLessonRequest struct {
	CancelAll  bool    `json:"cancelAll"`
	CancelDate *string `json:"cancelDate"`
}

// CancelLessonResponse reports whether a series was found and cancelled.
type CancelLessonResponse struct {
	Cancelled bool `json:"cancelled"`
}

// OccurrenceResponse answers whether a series meets on a date.
type OccurrenceResponse struct {
	SeriesID int64  `json:"seriesId"`
	Date     string `json:"date"`
	Occurs   bool   `json:"occurs"`
}

// TimetableQuery selects an owner's occurrences in a date range.
type TimetableQuery struct {
	OwnerID   int64            `form:"ownerId" validate:"required,gt=0"`
	OwnerKind models.OwnerKind `form:"ownerKind" validate:"required,oneof=STUDENT TEACHER"`
	From      string           `form:"from" validate:"required"`
	To        string           `form:"to" validate:"required"`
	Format    string           `form:"format" validate:"omitempty,oneof=csv pdf CSV PDF"`
}
