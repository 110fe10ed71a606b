package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/dto"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	appErrors "github.com/nowoterra-oss/EducationPortal-sub004/pkg/errors"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/response"
)

type availabilityService interface {
	AddSlot(ctx context.Context, req dto.CreateAvailabilityRequest) (*models.AvailabilitySlot, error)
	RemoveSlot(ctx context.Context, id int64) (bool, error)
	ListSlots(ctx context.Context, ownerID int64, kind models.OwnerKind) ([]models.AvailabilitySlot, error)
}

// AvailabilityHandler exposes weekly availability endpoints.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler builds a new handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Create godoc
// @Summary Declare a weekly availability slot
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.CreateAvailabilityRequest true "Availability payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability [post]
func (h *AvailabilityHandler) Create(c *gin.Context) {
	var req dto.CreateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid availability payload"))
		return
	}
	slot, err := h.service.AddSlot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// List godoc
// @Summary List a person's availability slots
// @Tags Availability
// @Produce json
// @Param ownerId query int true "Owner ID"
// @Param ownerKind query string true "STUDENT or TEACHER"
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	var query dto.OwnerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid owner query"))
		return
	}
	slots, err := h.service.ListSlots(c.Request.Context(), query.OwnerID, query.OwnerKind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, map[string]interface{}{"total": len(slots)})
}

// Delete godoc
// @Summary Remove an availability slot
// @Tags Availability
// @Param id path int true "Slot ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /availability/{id} [delete]
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	removed, err := h.service.RemoveSlot(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !removed {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "availability slot not found"))
		return
	}
	response.NoContent(c)
}
