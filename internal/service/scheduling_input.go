package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
	appErrors "github.com/nowoterra-oss/EducationPortal-sub004/pkg/errors"
)

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// parseWindow turns request fields into a window. Malformed times are
// validation errors; a window whose start is not before its end is
// INVALID_WINDOW.
func parseWindow(day *int, start, end string) (models.TimeWindow, error) {
	if day == nil || *day < 0 || *day > 6 {
		return models.TimeWindow{}, appErrors.Clone(appErrors.ErrValidation, "dayOfWeek must be between 0 (Sunday) and 6 (Saturday)")
	}
	from, err := models.ParseTimeOfDay(start)
	if err != nil {
		return models.TimeWindow{}, validationError(err, "invalid startTime")
	}
	to, err := models.ParseTimeOfDay(end)
	if err != nil {
		return models.TimeWindow{}, validationError(err, "invalid endTime")
	}
	window := models.TimeWindow{DayOfWeek: time.Weekday(*day), Start: from, End: to}
	if err := window.Validate(); err != nil {
		return models.TimeWindow{}, appErrors.Wrap(err, appErrors.ErrInvalidWindow.Code, appErrors.ErrInvalidWindow.Status, appErrors.ErrInvalidWindow.Message)
	}
	return window, nil
}

func parseDateField(field, raw string) (time.Time, error) {
	date, err := clock.ParseDate(raw)
	if err != nil {
		return time.Time{}, validationError(err, fmt.Sprintf("%s must be a YYYY-MM-DD date", field))
	}
	return date, nil
}

func ownerCacheKey(ownerID int64, kind models.OwnerKind) string {
	return "availability:" + string(kind) + ":" + strconv.FormatInt(ownerID, 10)
}
