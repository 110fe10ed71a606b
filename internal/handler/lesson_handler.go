package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/dto"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
	appErrors "github.com/nowoterra-oss/EducationPortal-sub004/pkg/errors"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/response"
)

type lessonScheduler interface {
	CreateLessonSeries(ctx context.Context, req dto.LessonSeriesRequest) (*models.LessonSeries, error)
	CheckConflicts(ctx context.Context, req dto.LessonSeriesRequest) (*models.ConflictCheckResult, error)
}

type lessonReader interface {
	GetSeries(ctx context.Context, id int64) (*models.LessonSeries, error)
	ListSeriesFor(ctx context.Context, ownerID int64, kind models.OwnerKind) ([]models.LessonSeries, error)
	OccursOn(ctx context.Context, id int64, date time.Time) (bool, bool, error)
}

type lessonCanceller interface {
	CancelLesson(ctx context.Context, seriesID int64, req dto.CancelLessonRequest) (bool, error)
}

// LessonHandler exposes lesson series endpoints.
type LessonHandler struct {
	scheduler    lessonScheduler
	registry     lessonReader
	cancellation lessonCanceller
}

// NewLessonHandler builds a new handler.
func NewLessonHandler(scheduler lessonScheduler, registry lessonReader, cancellation lessonCanceller) *LessonHandler {
	return &LessonHandler{scheduler: scheduler, registry: registry, cancellation: cancellation}
}

var errSeriesNotFound = appErrors.Clone(appErrors.ErrNotFound, "lesson series not found")

// Create godoc
// @Summary Create a weekly lesson series
// @Description Rejects the series with 409 when the teacher or any participant already has an overlapping active lesson.
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body dto.LessonSeriesRequest true "Lesson series payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req dto.LessonSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid lesson series payload"))
		return
	}
	series, err := h.scheduler.CreateLessonSeries(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, series)
}

// Check godoc
// @Summary Dry-run conflict detection for a lesson series
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body dto.LessonSeriesRequest true "Lesson series payload"
// @Success 200 {object} response.Envelope
// @Router /lessons/check [post]
func (h *LessonHandler) Check(c *gin.Context) {
	var req dto.LessonSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid lesson series payload"))
		return
	}
	result, err := h.scheduler.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// List godoc
// @Summary List every lesson series of a person
// @Tags Lessons
// @Produce json
// @Param ownerId query int true "Owner ID"
// @Param ownerKind query string true "STUDENT or TEACHER"
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	var query dto.OwnerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid owner query"))
		return
	}
	series, err := h.registry.ListSeriesFor(c.Request.Context(), query.OwnerID, query.OwnerKind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, series, map[string]interface{}{"total": len(series)})
}

// Get godoc
// @Summary Get a lesson series
// @Tags Lessons
// @Produce json
// @Param id path int true "Series ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	series, err := h.registry.GetSeries(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if series == nil {
		response.Error(c, errSeriesNotFound)
		return
	}
	response.JSON(c, http.StatusOK, series)
}

// Occurrence godoc
// @Summary Check whether a series meets on a date
// @Tags Lessons
// @Produce json
// @Param id path int true "Series ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lessons/{id}/occurrences/{date} [get]
func (h *LessonHandler) Occurrence(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	date, err := clock.ParseDate(c.Param("date"))
	if err != nil {
		response.Error(c, bindError(err, "date must be YYYY-MM-DD"))
		return
	}
	occurs, found, err := h.registry.OccursOn(c.Request.Context(), id, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.Error(c, errSeriesNotFound)
		return
	}
	response.JSON(c, http.StatusOK, dto.OccurrenceResponse{SeriesID: id, Date: clock.FormatDate(date), Occurs: occurs})
}

// Cancel godoc
// @Summary Cancel one occurrence or a whole lesson series
// @Description Repeating a cancellation succeeds without further effect.
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path int true "Series ID"
// @Param payload body dto.CancelLessonRequest true "Cancellation payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /lessons/{id}/cancel [post]
func (h *LessonHandler) Cancel(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CancelLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid cancellation payload"))
		return
	}
	cancelled, err := h.cancellation.CancelLesson(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !cancelled {
		response.Error(c, errSeriesNotFound)
		return
	}
	response.JSON(c, http.StatusOK, dto.CancelLessonResponse{Cancelled: true})
}
