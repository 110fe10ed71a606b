package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/dto"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/response"
)

type matchingService interface {
	FindMatchingSlots(ctx context.Context, query dto.MatchQuery) ([]models.MatchResult, error)
}

// MatchingHandler exposes the student/teacher matching endpoint.
type MatchingHandler struct {
	service matchingService
}

// NewMatchingHandler builds a new handler.
func NewMatchingHandler(service matchingService) *MatchingHandler {
	return &MatchingHandler{service: service}
}

// Find godoc
// @Summary Find weekly windows free for both a student and a teacher
// @Tags Matching
// @Produce json
// @Param studentId query int true "Student ID"
// @Param teacherId query int true "Teacher ID"
// @Param dayOfWeek query int false "Restrict to a weekday (0=Sunday)"
// @Success 200 {object} response.Envelope
// @Router /matches [get]
func (h *MatchingHandler) Find(c *gin.Context) {
	var query dto.MatchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid match query"))
		return
	}
	matches, err := h.service.FindMatchingSlots(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, matches, map[string]interface{}{"total": len(matches)})
}
