package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/dto"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
)

type slotLister interface {
	ListSlots(ctx context.Context, ownerID int64, kind models.OwnerKind) ([]models.AvailabilitySlot, error)
}

type activeSeriesLister interface {
	ListActiveSeriesFor(ctx context.Context, ownerID int64, kind models.OwnerKind) ([]models.LessonSeries, error)
}

// MatchingService finds weekly windows where a student and a teacher are both
// available and neither has a conflicting lesson.
type MatchingService struct {
	availability slotLister
	registry     activeSeriesLister
	clock        clock.Clock
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewMatchingService constructs a MatchingService.
func NewMatchingService(availability slotLister, registry activeSeriesLister, clk clock.Clock, validate *validator.Validate, logger *zap.Logger) *MatchingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchingService{availability: availability, registry: registry, clock: clk, validator: validate, logger: logger}
}

// FindMatchingSlots intersects both owners' availability and drops any
// candidate that overlaps an active lesson of either owner. Candidates are
// rejected whole; no sub-interval is carved out.
func (s *MatchingService) FindMatchingSlots(ctx context.Context, query dto.MatchQuery) ([]models.MatchResult, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, validationError(err, "invalid match query")
	}

	var (
		studentSlots, teacherSlots   []models.AvailabilitySlot
		studentSeries, teacherSeries []models.LessonSeries
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		studentSlots, err = s.availability.ListSlots(gctx, query.StudentID, models.OwnerStudent)
		return err
	})
	g.Go(func() (err error) {
		teacherSlots, err = s.availability.ListSlots(gctx, query.TeacherID, models.OwnerTeacher)
		return err
	})
	g.Go(func() (err error) {
		studentSeries, err = s.registry.ListActiveSeriesFor(gctx, query.StudentID, models.OwnerStudent)
		return err
	})
	g.Go(func() (err error) {
		teacherSeries, err = s.registry.ListActiveSeriesFor(gctx, query.TeacherID, models.OwnerTeacher)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var day *time.Weekday
	if query.DayOfWeek != nil {
		d := time.Weekday(*query.DayOfWeek)
		day = &d
	}

	today := clock.Today(s.clock)
	seen := make(map[models.TimeWindow]struct{})
	results := make([]models.MatchResult, 0)
	for _, ss := range studentSlots {
		if day != nil && ss.Window.DayOfWeek != *day {
			continue
		}
		for _, ts := range teacherSlots {
			candidate, ok := models.Intersect(ss.Window, ts.Window)
			if !ok {
				continue
			}
			if _, dup := seen[candidate]; dup {
				continue
			}
			seen[candidate] = struct{}{}
			if len(overlappingSeries(studentSeries, candidate, nil)) > 0 || len(overlappingSeries(teacherSeries, candidate, nil)) > 0 {
				continue
			}
			results = append(results, models.MatchResult{
				DayOfWeek:     candidate.DayOfWeek,
				Window:        candidate,
				AvailableFrom: clock.NextWeekday(today, candidate.DayOfWeek),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Window.Less(results[j].Window) })

	s.logger.Debug("matching slots computed",
		zap.Int64("student_id", query.StudentID),
		zap.Int64("teacher_id", query.TeacherID),
		zap.Int("matches", len(results)),
	)
	return results, nil
}
