package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/domain"
	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/usecase"
)

const ttl = 5 * time.Minute

func eventsSet() *domain.FeatureSet {
	return &domain.FeatureSet{
		Dataset: "events",
		Features: []domain.GeoFeature{
			feature("Brooklyn, NY", -73.95, 40.65, map[string]interface{}{
				"location": "Brooklyn, NY", "source": "events", "eventDate": "7/10/2020",
			}),
			feature("Austin, TX", -97.74, 30.27, map[string]interface{}{
				"location": "Austin, TX",
			}),
		},
		Skipped:  1,
		LoadedAt: time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFeatureSetUseCase_Snapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("lazy load from origin on cache miss", func(t *testing.T) {
		source := &MockFeatureRepository{}
		cache := &MockCacheRepository{}
		uc := usecase.NewFeatureSetUseCase(source, cache, []string{"events"}, "", ttl, nil, zap.NewNop())

		cache.On("GetFeatureCollection", mock.Anything, "events").Return(nil, nil).Once()
		source.On("LoadFeatures", mock.Anything, "events").Return(eventsSet(), nil).Once()
		cache.On("SetFeatureCollection", mock.Anything, "events", mock.AnythingOfType("[]uint8"), ttl).Return(nil).Once()

		set, err := uc.Snapshot(ctx, "events")
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())

		// второй вызов берёт готовый снимок
		again, err := uc.Snapshot(ctx, "events")
		require.NoError(t, err)
		assert.Same(t, set, again)

		source.AssertNumberOfCalls(t, "LoadFeatures", 1)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips origin", func(t *testing.T) {
		source := &MockFeatureRepository{}
		cache := &MockCacheRepository{}
		uc := usecase.NewFeatureSetUseCase(source, cache, []string{"events"}, "", ttl, nil, zap.NewNop())

		data, err := domain.EncodeFeatureCollection(eventsSet().Features)
		require.NoError(t, err)
		cache.On("GetFeatureCollection", mock.Anything, "events").Return(data, nil).Once()

		set, err := uc.Snapshot(ctx, "events")
		require.NoError(t, err)
		require.Equal(t, 2, set.Len())
		assert.Equal(t, "Brooklyn, NY", set.Features[0].Key)
		assert.Equal(t, "events", set.Features[0].Properties.Source)

		source.AssertNotCalled(t, "LoadFeatures", mock.Anything, mock.Anything)
	})

	t.Run("cache error falls back to origin", func(t *testing.T) {
		source := &MockFeatureRepository{}
		cache := &MockCacheRepository{}
		uc := usecase.NewFeatureSetUseCase(source, cache, []string{"events"}, "", ttl, nil, zap.NewNop())

		cache.On("GetFeatureCollection", mock.Anything, "events").Return(nil, errors.New("redis down"))
		source.On("LoadFeatures", mock.Anything, "events").Return(eventsSet(), nil)
		cache.On("SetFeatureCollection", mock.Anything, "events", mock.Anything, ttl).Return(errors.New("redis down"))

		set, err := uc.Snapshot(ctx, "events")
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
	})

	t.Run("unknown dataset", func(t *testing.T) {
		uc := usecase.NewFeatureSetUseCase(&MockFeatureRepository{}, nil, []string{"events"}, "", ttl, nil, zap.NewNop())

		_, err := uc.Snapshot(ctx, "affiliates")
		assert.ErrorIs(t, err, apperrors.ErrDatasetNotFound)
	})
}

func TestFeatureSetUseCase_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("force skips cache", func(t *testing.T) {
		source := &MockFeatureRepository{}
		cache := &MockCacheRepository{}
		uc := usecase.NewFeatureSetUseCase(source, cache, []string{"events"}, "", ttl, nil, zap.NewNop())

		source.On("LoadFeatures", mock.Anything, "events").Return(eventsSet(), nil).Once()
		cache.On("SetFeatureCollection", mock.Anything, "events", mock.Anything, ttl).Return(nil).Once()

		set, err := uc.Refresh(ctx, "events", true)
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())

		cache.AssertNotCalled(t, "GetFeatureCollection", mock.Anything, mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("failed refresh keeps previous snapshot", func(t *testing.T) {
		source := &MockFeatureRepository{}
		uc := usecase.NewFeatureSetUseCase(source, nil, []string{"events"}, "", ttl, nil, zap.NewNop())

		source.On("LoadFeatures", mock.Anything, "events").Return(eventsSet(), nil).Once()
		source.On("LoadFeatures", mock.Anything, "events").Return(nil, apperrors.ErrUpstreamError).Once()

		first, err := uc.Refresh(ctx, "events", true)
		require.NoError(t, err)

		_, err = uc.Refresh(ctx, "events", true)
		assert.ErrorIs(t, err, apperrors.ErrUpstreamError)

		current, ok := uc.Loaded("events")
		require.True(t, ok)
		assert.Same(t, first, current)
	})

	t.Run("forced refresh is not overwritten by a slower cache read", func(t *testing.T) {
		source := &MockFeatureRepository{}
		cache := &MockCacheRepository{}
		uc := usecase.NewFeatureSetUseCase(source, cache, []string{"events"}, "", ttl, nil, zap.NewNop())

		stale, err := domain.EncodeFeatureCollection(eventsSet().Features[:1])
		require.NoError(t, err)
		fresh := eventsSet()

		entered := make(chan struct{})
		release := make(chan struct{})
		cache.On("GetFeatureCollection", mock.Anything, "events").
			Run(func(mock.Arguments) {
				close(entered)
				<-release
			}).
			Return(stale, nil).Once()
		source.On("LoadFeatures", mock.Anything, "events").Return(fresh, nil).Once()
		cache.On("SetFeatureCollection", mock.Anything, "events", mock.Anything, ttl).Return(nil).Maybe()

		lazyErr := make(chan error, 1)
		go func() {
			_, err := uc.Snapshot(ctx, "events")
			lazyErr <- err
		}()
		<-entered

		type result struct {
			set *domain.FeatureSet
			err error
		}
		forced := make(chan result, 1)
		go func() {
			set, err := uc.Refresh(ctx, "events", true)
			forced <- result{set, err}
		}()

		time.Sleep(20 * time.Millisecond)
		close(release)

		require.NoError(t, <-lazyErr)
		r := <-forced
		require.NoError(t, r.err)
		assert.Same(t, fresh, r.set)

		current, ok := uc.Loaded("events")
		require.True(t, ok)
		assert.Same(t, fresh, current)
		source.AssertExpectations(t)
	})

	t.Run("cancelled caller does not fail joined callers", func(t *testing.T) {
		source := &MockFeatureRepository{}
		uc := usecase.NewFeatureSetUseCase(source, nil, []string{"events"}, "", ttl, nil, zap.NewNop())

		entered := make(chan struct{})
		release := make(chan struct{})
		loadCtxErr := make(chan error, 1)
		source.On("LoadFeatures", mock.Anything, "events").
			Run(func(args mock.Arguments) {
				close(entered)
				<-release
				loadCtxErr <- args.Get(0).(context.Context).Err()
			}).
			Return(eventsSet(), nil).Once()

		cctx, cancel := context.WithCancel(ctx)
		firstErr := make(chan error, 1)
		go func() {
			_, err := uc.Refresh(cctx, "events", false)
			firstErr <- err
		}()
		<-entered

		second := make(chan error, 1)
		go func() {
			set, err := uc.Snapshot(ctx, "events")
			if err == nil && set.Len() != 2 {
				err = errors.New("unexpected snapshot")
			}
			second <- err
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()
		assert.ErrorIs(t, <-firstErr, context.Canceled)

		close(release)
		assert.NoError(t, <-second)
		assert.NoError(t, <-loadCtxErr)
		source.AssertNumberOfCalls(t, "LoadFeatures", 1)
	})

	t.Run("load timeout", func(t *testing.T) {
		source := &MockFeatureRepository{}
		uc := usecase.NewFeatureSetUseCase(source, nil, []string{"events"}, "", ttl, nil, zap.NewNop())
		uc.SetLoadTimeout(10 * time.Millisecond)

		source.On("LoadFeatures", mock.Anything, "events").
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(nil, context.DeadlineExceeded).Once()

		_, err := uc.Refresh(ctx, "events", true)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		_, ok := uc.Loaded("events")
		assert.False(t, ok)
	})

	t.Run("refresh all", func(t *testing.T) {
		source := &MockFeatureRepository{}
		uc := usecase.NewFeatureSetUseCase(source, nil, []string{"events", "affiliates", "events"}, "", ttl, nil, zap.NewNop())

		source.On("LoadFeatures", mock.Anything, "events").Return(eventsSet(), nil).Once()
		source.On("LoadFeatures", mock.Anything, "affiliates").Return(&domain.FeatureSet{Dataset: "affiliates"}, nil).Once()

		require.NoError(t, uc.RefreshAll(ctx, false))
		assert.Equal(t, []string{"events", "affiliates"}, uc.Datasets())

		_, ok := uc.Loaded("affiliates")
		assert.True(t, ok)
		source.AssertExpectations(t)
	})
}

func TestFeatureSetUseCase_Lookups(t *testing.T) {
	ctx := context.Background()
	source := &MockFeatureRepository{}
	source.On("LoadFeatures", mock.Anything, "events").Return(eventsSet(), nil)
	uc := usecase.NewFeatureSetUseCase(source, nil, []string{"events"}, "events", ttl, nil, zap.NewNop())

	t.Run("resolve default dataset", func(t *testing.T) {
		assert.Equal(t, "events", uc.Resolve(""))
		assert.Equal(t, "affiliates", uc.Resolve("affiliates"))
	})

	t.Run("feature by key", func(t *testing.T) {
		f, err := uc.FeatureByKey(ctx, "events", "Austin, TX")
		require.NoError(t, err)
		assert.Equal(t, 30.27, f.Coordinates.Lat)

		_, err = uc.FeatureByKey(ctx, "events", "Nowhere")
		assert.ErrorIs(t, err, apperrors.ErrFeatureNotFound)
	})

	t.Run("geojson", func(t *testing.T) {
		data, set, err := uc.GeoJSON(ctx, "events")
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
		assert.Contains(t, string(data), `"FeatureCollection"`)
		assert.Contains(t, string(data), `"Brooklyn, NY"`)
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := uc.Stats(ctx, "events")
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, 1, stats.Skipped)
		assert.Equal(t, 1, stats.WithEvents)
		assert.Equal(t, map[string]int{"events": 1, "none": 1}, stats.BySource)
	})
}
