package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/dto"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	appErrors "github.com/nowoterra-oss/EducationPortal-sub004/pkg/errors"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/lock"
)

// LessonSchedulerConfig tunes LessonSchedulerService.
type LessonSchedulerConfig struct {
	LockWait            time.Duration
	EnforceAvailability bool
}

// LessonSchedulerService validates and commits new lesson series.
type LessonSchedulerService struct {
	registry     *LessonRegistry
	availability slotLister
	locker       lock.Locker
	metrics      *MetricsService
	cfg          LessonSchedulerConfig
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewLessonSchedulerService constructs a LessonSchedulerService.
func NewLessonSchedulerService(registry *LessonRegistry, availability slotLister, locker lock.Locker, metrics *MetricsService, cfg LessonSchedulerConfig, validate *validator.Validate, logger *zap.Logger) *LessonSchedulerService {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	if cfg.LockWait <= 0 {
		cfg.LockWait = 3 * time.Second
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonSchedulerService{
		registry:     registry,
		availability: availability,
		locker:       locker,
		metrics:      metrics,
		cfg:          cfg,
		validator:    validate,
		logger:       logger,
	}
}

// CreateLessonSeries validates the request and, under the owner locks of the
// teacher and every participant, checks for conflicts and stores the series.
// Either the whole series is committed or nothing is.
func (s *LessonSchedulerService) CreateLessonSeries(ctx context.Context, req dto.LessonSeriesRequest) (*models.LessonSeries, error) {
	series, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	release, err := s.lockOwners(ctx, series)
	if err != nil {
		return nil, err
	}
	defer release()

	conflicts, err := s.findConflicts(ctx, series)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		s.metrics.RecordConflict()
		s.logger.Info("lesson series rejected",
			zap.Int64("teacher_id", series.TeacherID),
			zap.Stringer("window", series.Window),
			zap.Int64s("conflicting_series_ids", conflicts),
		)
		return nil, wrapSchedulingConflict(conflicts)
	}

	if err := s.registry.insert(ctx, series); err != nil {
		return nil, err
	}
	s.metrics.RecordLessonCreated(series.Kind)
	s.logger.Info("lesson series created",
		zap.Int64("series_id", series.ID),
		zap.String("kind", string(series.Kind)),
		zap.Int64("teacher_id", series.TeacherID),
		zap.Int64s("participant_ids", series.ParticipantIDs),
		zap.Stringer("window", series.Window),
	)
	return series, nil
}

// CheckConflicts runs the same validation and conflict detection as
// CreateLessonSeries without locking or writing anything.
func (s *LessonSchedulerService) CheckConflicts(ctx context.Context, req dto.LessonSeriesRequest) (*models.ConflictCheckResult, error) {
	series, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	conflicts, err := s.findConflicts(ctx, series)
	if err != nil {
		return nil, err
	}
	if conflicts == nil {
		conflicts = []int64{}
	}
	return &models.ConflictCheckResult{HasConflicts: len(conflicts) > 0, ConflictingSeriesIDs: conflicts}, nil
}

// prepare validates the request and builds the series to be stored.
func (s *LessonSchedulerService) prepare(ctx context.Context, req dto.LessonSeriesRequest) (*models.LessonSeries, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid lesson series payload")
	}

	window, err := parseWindow(req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	participants := uniqueIDs(req.ParticipantIDs)
	switch req.Kind {
	case models.LessonIndividual:
		if len(participants) != 1 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "an individual lesson has exactly one participant")
		}
	case models.LessonGroup:
		if len(participants) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "a group lesson needs at least one participant")
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "kind must be INDIVIDUAL or GROUP")
	}

	start, err := parseDateField("seriesStartDate", req.SeriesStartDate)
	if err != nil {
		return nil, err
	}
	if start.Weekday() != window.DayOfWeek {
		return nil, appErrors.Clone(appErrors.ErrInvalidStartDate,
			fmt.Sprintf("series start date %s is a %s, window is on %s", req.SeriesStartDate, start.Weekday(), window.DayOfWeek))
	}

	var end *time.Time
	if req.SeriesEndDate != nil && *req.SeriesEndDate != "" {
		parsed, err := parseDateField("seriesEndDate", *req.SeriesEndDate)
		if err != nil {
			return nil, err
		}
		if parsed.Before(start) {
			return nil, appErrors.ErrInvalidEndDate
		}
		end = &parsed
	}

	series := &models.LessonSeries{
		Kind:            req.Kind,
		TeacherID:       req.TeacherID,
		ParticipantIDs:  participants,
		Window:          window,
		SeriesStartDate: start,
		SeriesEndDate:   end,
		CancelledDates:  []time.Time{},
		IsActive:        true,
	}

	if s.cfg.EnforceAvailability {
		if err := s.ensureAvailable(ctx, series); err != nil {
			return nil, err
		}
	}
	return series, nil
}

func (s *LessonSchedulerService) ensureAvailable(ctx context.Context, series *models.LessonSeries) error {
	owners := ownersOf(series)
	var missing []string
	for _, o := range owners {
		slots, err := s.availability.ListSlots(ctx, o.id, o.kind)
		if err != nil {
			return err
		}
		covered := false
		for _, slot := range slots {
			if models.Contains(slot.Window, series.Window) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, string(o.kind)+":"+strconv.FormatInt(o.id, 10))
		}
	}
	if len(missing) > 0 {
		return appErrors.WithDetails(appErrors.ErrOutsideAvailability, map[string]interface{}{"owners": missing})
	}
	return nil
}

func (s *LessonSchedulerService) findConflicts(ctx context.Context, series *models.LessonSeries) ([]int64, error) {
	var groups [][]int64
	for _, o := range ownersOf(series) {
		ids, err := s.registry.FindConflicts(ctx, o.id, o.kind, series.Window, nil)
		if err != nil {
			return nil, err
		}
		groups = append(groups, ids)
	}
	return mergeIDs(groups...), nil
}

func (s *LessonSchedulerService) lockOwners(ctx context.Context, series *models.LessonSeries) (func(), error) {
	owners := ownersOf(series)
	keys := make([]string, 0, len(owners))
	for _, o := range owners {
		keys = append(keys, ownerLockKey(o.id, o.kind))
	}

	started := time.Now()
	handle, err := lock.AcquireAll(ctx, s.locker, keys, s.cfg.LockWait)
	s.metrics.ObserveLockWait(err == nil, time.Since(started))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.logger.Warn("owner lock not acquired", zap.Strings("keys", keys), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrOwnerLocked.Code, appErrors.ErrOwnerLocked.Status, appErrors.ErrOwnerLocked.Message)
		}
		return nil, internalError(err, "failed to acquire owner lock")
	}

	return func() {
		if err := handle.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("owner lock release failed", zap.Strings("keys", keys), zap.Error(err))
		}
	}, nil
}

type scheduleOwner struct {
	id   int64
	kind models.OwnerKind
}

func ownersOf(series *models.LessonSeries) []scheduleOwner {
	owners := make([]scheduleOwner, 0, len(series.ParticipantIDs)+1)
	owners = append(owners, scheduleOwner{id: series.TeacherID, kind: models.OwnerTeacher})
	for _, id := range series.ParticipantIDs {
		owners = append(owners, scheduleOwner{id: id, kind: models.OwnerStudent})
	}
	return owners
}

func ownerLockKey(id int64, kind models.OwnerKind) string {
	return "scheduling:owner:" + string(kind) + ":" + strconv.FormatInt(id, 10)
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func wrapSchedulingConflict(ids []int64) error {
	conflict := &models.SchedulingConflictError{
		Message:              "lesson conflicts with an existing series",
		ConflictingSeriesIDs: ids,
	}
	wrapped := appErrors.Wrap(conflict, appErrors.ErrSchedulingConflict.Code, appErrors.ErrSchedulingConflict.Status, appErrors.ErrSchedulingConflict.Message)
	wrapped.Details = map[string]interface{}{"conflicting_series_ids": ids}
	return wrapped
}
