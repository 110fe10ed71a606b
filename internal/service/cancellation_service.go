package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/dto"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
	appErrors "github.com/nowoterra-oss/EducationPortal-sub004/pkg/errors"
)

// CancellationService cancels single occurrences or whole lesson series.
// Every call is idempotent.
type CancellationService struct {
	registry *LessonRegistry
	clock    clock.Clock
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewCancellationService constructs a CancellationService.
func NewCancellationService(registry *LessonRegistry, clk clock.Clock, metrics *MetricsService, logger *zap.Logger) *CancellationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CancellationService{registry: registry, clock: clk, metrics: metrics, logger: logger}
}

// CancelLesson returns false without error when the series does not exist.
// Cancelling the whole series deactivates it from today on; past occurrences
// stay on record. A single cancellation adds an exception date, which must be
// today or later and carry a live occurrence.
func (s *CancellationService) CancelLesson(ctx context.Context, seriesID int64, req dto.CancelLessonRequest) (bool, error) {
	series, err := s.registry.GetSeries(ctx, seriesID)
	if err != nil {
		return false, err
	}
	if series == nil {
		return false, nil
	}
	today := clock.Today(s.clock)

	if req.CancelAll {
		if !series.IsActive {
			return true, nil
		}
		changed, err := s.registry.deactivate(ctx, series.ID, today)
		if err != nil {
			return false, err
		}
		if changed {
			s.metrics.RecordCancellation("series")
			s.logger.Info("lesson series cancelled", zap.Int64("series_id", series.ID), zap.String("on", clock.FormatDate(today)))
		}
		return true, nil
	}

	if req.CancelDate == nil || *req.CancelDate == "" {
		return false, appErrors.ErrMissingCancelDate
	}
	date, err := clock.ParseDate(*req.CancelDate)
	if err != nil {
		return false, validationError(err, "cancelDate must be a YYYY-MM-DD date")
	}
	if date.Before(today) {
		return false, appErrors.Clone(appErrors.ErrInvalidCancelDate, "cannot cancel an occurrence in the past")
	}
	if series.IsCancelledOn(date) {
		return true, nil
	}
	if !series.OccursOn(date) {
		return false, appErrors.ErrInvalidCancelDate
	}

	added, err := s.registry.addException(ctx, series.ID, date)
	if err != nil {
		return false, err
	}
	if added {
		s.metrics.RecordCancellation("occurrence")
		s.logger.Info("lesson occurrence cancelled", zap.Int64("series_id", series.ID), zap.String("date", clock.FormatDate(date)))
	}
	return true, nil
}
