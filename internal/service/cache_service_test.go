package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
)

type failingCacheRepo struct{}

func (failingCacheRepo) Get(context.Context, string, interface{}) error {
	return errors.New("connection refused")
}

func (failingCacheRepo) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("connection refused")
}

func (failingCacheRepo) Delete(context.Context, ...string) error {
	return errors.New("connection refused")
}

func TestCacheServiceRoundTrip(t *testing.T) {
	metrics := NewMetricsService()
	cache := NewCacheService(newMemCacheRepo(), metrics, time.Minute, nil, true)
	ctx := context.Background()
	key := ownerCacheKey(7, models.OwnerStudent)
	assert.Equal(t, "availability:STUDENT:7", key)

	var out []models.AvailabilitySlot
	assert.False(t, cache.Get(ctx, key, &out))

	cache.Set(ctx, key, []models.AvailabilitySlot{{ID: 1, OwnerID: 7, OwnerKind: models.OwnerStudent}})
	require.True(t, cache.Get(ctx, key, &out))
	assert.Len(t, out, 1)

	cache.Invalidate(ctx, key)
	assert.False(t, cache.Get(ctx, key, &out))

	snapshot := metrics.Snapshot(time.Now())
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(2), snapshot.CacheMisses)
	assert.InDelta(t, 1.0/3.0, snapshot.CacheHitRatio, 0.0001)
}

func TestCacheServiceDisabledAndFailing(t *testing.T) {
	ctx := context.Background()
	var out []models.AvailabilitySlot

	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	assert.False(t, nilCache.Get(ctx, "k", &out))
	nilCache.Set(ctx, "k", out)
	nilCache.Invalidate(ctx, "k")

	disabled := NewCacheService(newMemCacheRepo(), nil, 0, nil, false)
	disabled.Set(ctx, "k", []models.AvailabilitySlot{})
	assert.False(t, disabled.Get(ctx, "k", &out))

	failing := NewCacheService(failingCacheRepo{}, nil, 0, nil, true)
	assert.NotPanics(t, func() {
		failing.Set(ctx, "k", []models.AvailabilitySlot{})
		failing.Invalidate(ctx, "k")
	})
	assert.False(t, failing.Get(ctx, "k", &out))
}

func TestAvailabilityServiceSurvivesCacheOutage(t *testing.T) {
	repo := newMemAvailabilityRepo()
	svc := NewAvailabilityService(repo, NewCacheService(failingCacheRepo{}, nil, 0, nil, true), nil, nil)
	ctx := context.Background()

	_, err := svc.AddSlot(ctx, availabilityRequest(7, models.OwnerStudent, 2, "14:00", "16:00"))
	require.NoError(t, err)
	slots, err := svc.ListSlots(ctx, 7, models.OwnerStudent)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}
