package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
	appErrors "github.com/nowoterra-oss/EducationPortal-sub004/pkg/errors"
)

// memAvailabilityRepo is a thread-safe availabilityRepository.
type memAvailabilityRepo struct {
	mu     sync.Mutex
	nextID int64
	slots  map[int64]models.AvailabilitySlot
	lists  int
	err    error
}

func newMemAvailabilityRepo() *memAvailabilityRepo {
	return &memAvailabilityRepo{slots: make(map[int64]models.AvailabilitySlot)}
}

func (r *memAvailabilityRepo) Create(_ context.Context, slot *models.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	slot.ID = r.nextID
	slot.CreatedAt = time.Now().UTC()
	r.slots[slot.ID] = *slot
	return nil
}

func (r *memAvailabilityRepo) Delete(_ context.Context, id int64) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	delete(r.slots, id)
	return &slot, nil
}

func (r *memAvailabilityRepo) ListByOwner(_ context.Context, ownerID int64, kind models.OwnerKind) ([]models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.err != nil {
		return nil, r.err
	}
	var out []models.AvailabilitySlot
	for _, s := range r.slots {
		if s.OwnerID == ownerID && s.OwnerKind == kind {
			out = append(out, s)
		}
	}
	return out, nil
}

// memLessonRepo is a thread-safe lessonSeriesRepository.
type memLessonRepo struct {
	mu     sync.Mutex
	nextID int64
	series map[int64]models.LessonSeries
	err    error
}

func newMemLessonRepo() *memLessonRepo {
	return &memLessonRepo{series: make(map[int64]models.LessonSeries)}
}

func cloneSeries(s models.LessonSeries) models.LessonSeries {
	s.ParticipantIDs = append([]int64(nil), s.ParticipantIDs...)
	s.CancelledDates = append([]time.Time{}, s.CancelledDates...)
	return s
}

func (r *memLessonRepo) Create(_ context.Context, series *models.LessonSeries) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	series.ID = r.nextID
	series.IsActive = true
	series.CancelledDates = []time.Time{}
	series.CreatedAt = time.Now().UTC()
	series.UpdatedAt = series.CreatedAt
	r.series[series.ID] = cloneSeries(*series)
	return nil
}

func (r *memLessonRepo) FindByID(_ context.Context, id int64) (*models.LessonSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.series[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := cloneSeries(s)
	return &out, nil
}

func (r *memLessonRepo) ListByOwner(_ context.Context, ownerID int64, kind models.OwnerKind, activeOnly bool) ([]models.LessonSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []models.LessonSeries
	for _, s := range r.series {
		if activeOnly && !s.IsActive {
			continue
		}
		if s.OwnedBy(ownerID, kind) {
			out = append(out, cloneSeries(s))
		}
	}
	return out, nil
}

func (r *memLessonRepo) Deactivate(_ context.Context, id int64, on time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[id]
	if !ok || !s.IsActive {
		return false, nil
	}
	s.IsActive = false
	s.DeactivatedOn = &on
	r.series[id] = s
	return true, nil
}

func (r *memLessonRepo) AddCancelledDate(_ context.Context, id int64, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[id]
	if !ok || s.IsCancelledOn(date) {
		return false, nil
	}
	s.CancelledDates = append(s.CancelledDates, date)
	r.series[id] = s
	return true, nil
}

func (r *memLessonRepo) get(id int64) models.LessonSeries {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSeries(r.series[id])
}

// memCacheRepo is an in-memory CacheRepository storing values by reference.
type memCacheRepo struct {
	mu     sync.Mutex
	values map[string][]models.AvailabilitySlot
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{values: make(map[string][]models.AvailabilitySlot)}
}

func (r *memCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	out, ok := dest.(*[]models.AvailabilitySlot)
	if !ok {
		return errors.New("unexpected destination")
	}
	*out = append([]models.AvailabilitySlot(nil), v...)
	return nil
}

func (r *memCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slots, ok := value.([]models.AvailabilitySlot)
	if !ok {
		return errors.New("unexpected value")
	}
	r.values[key] = append([]models.AvailabilitySlot(nil), slots...)
	return nil
}

func (r *memCacheRepo) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}

// schedulingFixture wires every scheduling service on in-memory storage with
// the clock pinned to Sunday 2026-10-18.
type schedulingFixture struct {
	clock        *clock.FixedClock
	availRepo    *memAvailabilityRepo
	lessonRepo   *memLessonRepo
	metrics      *MetricsService
	availability *AvailabilityService
	registry     *LessonRegistry
	matcher      *MatchingService
	scheduler    *LessonSchedulerService
	cancellation *CancellationService
	timetable    *TimetableService
}

func newSchedulingFixture(cfg LessonSchedulerConfig) *schedulingFixture {
	f := &schedulingFixture{
		clock:      clock.NewFixedClock(time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)),
		availRepo:  newMemAvailabilityRepo(),
		lessonRepo: newMemLessonRepo(),
		metrics:    NewMetricsService(),
	}
	cache := NewCacheService(newMemCacheRepo(), f.metrics, time.Minute, nil, true)
	f.availability = NewAvailabilityService(f.availRepo, cache, nil, nil)
	f.registry = NewLessonRegistry(f.lessonRepo, f.clock, nil)
	f.matcher = NewMatchingService(f.availability, f.registry, f.clock, nil, nil)
	f.scheduler = NewLessonSchedulerService(f.registry, f.availability, nil, f.metrics, cfg, nil, nil)
	f.cancellation = NewCancellationService(f.registry, f.clock, f.metrics, nil)
	f.timetable = NewTimetableService(f.registry, 92, nil, nil)
	return f
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
