package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/dto"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/service"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/response"
)

type timetableService interface {
	ListOccurrences(ctx context.Context, query dto.TimetableQuery) ([]models.LessonOccurrence, error)
	Export(ctx context.Context, query dto.TimetableQuery) (*service.TimetableDocument, error)
}

// TimetableHandler exposes dated timetable views.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler builds a new handler.
func NewTimetableHandler(service timetableService) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// List godoc
// @Summary List lesson occurrences of a person in a date range
// @Tags Timetable
// @Produce json
// @Param ownerId query int true "Owner ID"
// @Param ownerKind query string true "STUDENT or TEACHER"
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "Last date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid timetable query"))
		return
	}
	occurrences, err := h.service.ListOccurrences(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrences, map[string]interface{}{
		"total": len(occurrences),
		"from":  query.From,
		"to":    query.To,
	})
}

// Export godoc
// @Summary Download a timetable as CSV or PDF
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param ownerId query int true "Owner ID"
// @Param ownerKind query string true "STUDENT or TEACHER"
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "Last date (YYYY-MM-DD)"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid timetable query"))
		return
	}
	doc, err := h.service.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, doc.Filename, doc.ContentType, doc.Body)
}
