package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
	appErrors "github.com/nowoterra-oss/EducationPortal-sub004/pkg/errors"
)

type lessonSeriesRepository interface {
	Create(ctx context.Context, series *models.LessonSeries) error
	FindByID(ctx context.Context, id int64) (*models.LessonSeries, error)
	ListByOwner(ctx context.Context, ownerID int64, kind models.OwnerKind, activeOnly bool) ([]models.LessonSeries, error)
	Deactivate(ctx context.Context, id int64, on time.Time) (bool, error)
	AddCancelledDate(ctx context.Context, id int64, date time.Time) (bool, error)
}

// LessonRegistry is the read side of lesson series plus the package-private
// write paths used by the scheduler and the cancellation engine.
type LessonRegistry struct {
	repo   lessonSeriesRepository
	clock  clock.Clock
	logger *zap.Logger
}

// NewLessonRegistry constructs a LessonRegistry.
func NewLessonRegistry(repo lessonSeriesRepository, clk clock.Clock, logger *zap.Logger) *LessonRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonRegistry{repo: repo, clock: clk, logger: logger}
}

// GetSeries loads a series, returning nil when it does not exist.
func (r *LessonRegistry) GetSeries(ctx context.Context, id int64) (*models.LessonSeries, error) {
	if id <= 0 {
		return nil, nil
	}
	series, err := r.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, internalError(err, "failed to load lesson series")
	}
	return series, nil
}

// ListSeriesFor returns every series an owner teaches or attends, including
// deactivated ones.
func (r *LessonRegistry) ListSeriesFor(ctx context.Context, ownerID int64, kind models.OwnerKind) ([]models.LessonSeries, error) {
	if ownerID <= 0 || !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ownerId and ownerKind are required")
	}
	series, err := r.repo.ListByOwner(ctx, ownerID, kind, false)
	if err != nil {
		return nil, internalError(err, "failed to list lesson series")
	}
	if series == nil {
		series = []models.LessonSeries{}
	}
	return series, nil
}

// ListActiveSeriesFor returns the owner's active series that still have an
// occurrence today or later.
func (r *LessonRegistry) ListActiveSeriesFor(ctx context.Context, ownerID int64, kind models.OwnerKind) ([]models.LessonSeries, error) {
	if ownerID <= 0 || !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ownerId and ownerKind are required")
	}
	series, err := r.repo.ListByOwner(ctx, ownerID, kind, true)
	if err != nil {
		return nil, internalError(err, "failed to list active lesson series")
	}
	today := clock.Today(r.clock)
	active := make([]models.LessonSeries, 0, len(series))
	for _, s := range series {
		if s.OwnedBy(ownerID, kind) && s.IsActiveAsOf(today) {
			active = append(active, s)
		}
	}
	return active, nil
}

// OccursOn reports whether series id meets on date. The second result is false
// when the series does not exist.
func (r *LessonRegistry) OccursOn(ctx context.Context, id int64, date time.Time) (bool, bool, error) {
	series, err := r.GetSeries(ctx, id)
	if err != nil || series == nil {
		return false, false, err
	}
	return series.OccursOn(date), true, nil
}

// HasConflict reports whether any active series of the owner overlaps window.
func (r *LessonRegistry) HasConflict(ctx context.Context, ownerID int64, kind models.OwnerKind, window models.TimeWindow, excludeSeriesID *int64) (bool, error) {
	ids, err := r.FindConflicts(ctx, ownerID, kind, window, excludeSeriesID)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// FindConflicts returns the ids of the owner's active series overlapping window.
func (r *LessonRegistry) FindConflicts(ctx context.Context, ownerID int64, kind models.OwnerKind, window models.TimeWindow, excludeSeriesID *int64) ([]int64, error) {
	active, err := r.ListActiveSeriesFor(ctx, ownerID, kind)
	if err != nil {
		return nil, err
	}
	return overlappingSeries(active, window, excludeSeriesID), nil
}

func (r *LessonRegistry) insert(ctx context.Context, series *models.LessonSeries) error {
	if err := r.repo.Create(ctx, series); err != nil {
		return internalError(err, "failed to create lesson series")
	}
	return nil
}

func (r *LessonRegistry) deactivate(ctx context.Context, id int64, on time.Time) (bool, error) {
	changed, err := r.repo.Deactivate(ctx, id, on)
	if err != nil {
		return false, internalError(err, "failed to deactivate lesson series")
	}
	return changed, nil
}

func (r *LessonRegistry) addException(ctx context.Context, id int64, date time.Time) (bool, error) {
	added, err := r.repo.AddCancelledDate(ctx, id, date)
	if err != nil {
		return false, internalError(err, "failed to cancel lesson occurrence")
	}
	return added, nil
}

// overlappingSeries returns the sorted ids of series whose window overlaps
// window. Individual and group series are treated alike.
func overlappingSeries(series []models.LessonSeries, window models.TimeWindow, excludeSeriesID *int64) []int64 {
	var ids []int64
	for _, s := range series {
		if excludeSeriesID != nil && s.ID == *excludeSeriesID {
			continue
		}
		if models.Overlaps(s.Window, window) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func mergeIDs(groups ...[]int64) []int64 {
	seen := make(map[int64]struct{})
	var out []int64
	for _, group := range groups {
		for _, id := range group {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
