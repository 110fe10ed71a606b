package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/dto"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	appErrors "github.com/nowoterra-oss/EducationPortal-sub004/pkg/errors"
)

type availabilityRepository interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	Delete(ctx context.Context, id int64) (*models.AvailabilitySlot, error)
	ListByOwner(ctx context.Context, ownerID int64, kind models.OwnerKind) ([]models.AvailabilitySlot, error)
}

// AvailabilityService manages the weekly availability store. Slots are
// advisory: adding one never checks existing lessons and removing one never
// touches lessons already booked inside it.
type AvailabilityService struct {
	repo      availabilityRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService. cache may be nil.
func NewAvailabilityService(repo availabilityRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// AddSlot records a new availability window for an owner. Overlapping slots
// for the same owner are allowed.
func (s *AvailabilityService) AddSlot(ctx context.Context, req dto.CreateAvailabilityRequest) (*models.AvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid availability payload")
	}
	window, err := parseWindow(req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	slot := &models.AvailabilitySlot{OwnerID: req.OwnerID, OwnerKind: req.OwnerKind, Window: window}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, internalError(err, "failed to create availability slot")
	}
	s.cache.Invalidate(ctx, ownerCacheKey(slot.OwnerID, slot.OwnerKind))

	s.logger.Info("availability slot added",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("owner_id", slot.OwnerID),
		zap.String("owner_kind", string(slot.OwnerKind)),
		zap.Stringer("window", slot.Window),
	)
	return slot, nil
}

// RemoveSlot deletes a slot. It returns false when the slot does not exist, so
// a repeated call is harmless.
func (s *AvailabilityService) RemoveSlot(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, internalError(err, "failed to delete availability slot")
	}
	if deleted == nil {
		return false, nil
	}
	s.cache.Invalidate(ctx, ownerCacheKey(deleted.OwnerID, deleted.OwnerKind))
	s.logger.Info("availability slot removed", zap.Int64("slot_id", id), zap.Int64("owner_id", deleted.OwnerID))
	return true, nil
}

// ListSlots returns an owner's slots sorted by (day, start).
func (s *AvailabilityService) ListSlots(ctx context.Context, ownerID int64, kind models.OwnerKind) ([]models.AvailabilitySlot, error) {
	if ownerID <= 0 || !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ownerId and ownerKind are required")
	}

	key := ownerCacheKey(ownerID, kind)
	var cached []models.AvailabilitySlot
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	slots, err := s.repo.ListByOwner(ctx, ownerID, kind)
	if err != nil {
		return nil, internalError(err, "failed to list availability slots")
	}
	if slots == nil {
		slots = []models.AvailabilitySlot{}
	}
	models.SortAvailabilitySlots(slots)
	s.cache.Set(ctx, key, slots)
	return slots, nil
}
