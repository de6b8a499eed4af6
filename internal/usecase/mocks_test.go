package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/marchon-locator/internal/domain"
)

// MockFeatureRepository is a mock of FeatureRepository
type MockFeatureRepository struct {
	mock.Mock
}

func (m *MockFeatureRepository) LoadFeatures(ctx context.Context, dataset string) (*domain.FeatureSet, error) {
	args := m.Called(ctx, dataset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeatureSet), args.Error(1)
}

func (m *MockFeatureRepository) UpsertFeatures(ctx context.Context, dataset string, features []domain.GeoFeature) error {
	args := m.Called(ctx, dataset, features)
	return args.Error(0)
}

func (m *MockFeatureRepository) DeleteExcept(ctx context.Context, dataset string, keep []string) (int64, error) {
	args := m.Called(ctx, dataset, keep)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFeatureRepository) ListDatasets(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) GetFeatureCollection(ctx context.Context, dataset string) ([]byte, error) {
	args := m.Called(ctx, dataset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) SetFeatureCollection(ctx context.Context, dataset string, data []byte, ttl time.Duration) error {
	args := m.Called(ctx, dataset, data, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) InvalidateFeatureCollection(ctx context.Context, dataset string) error {
	args := m.Called(ctx, dataset)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) DeleteConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) (string, error) {
	args := m.Called(ctx, stream, data)
	return args.String(0), args.Error(1)
}

// MockGeocoderRepository is a mock of GeocoderRepository
type MockGeocoderRepository struct {
	mock.Mock
}

func (m *MockGeocoderRepository) ForwardGeocode(ctx context.Context, query string, countries []string) (*domain.GeocodeResult, error) {
	args := m.Called(ctx, query, countries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodeResult), args.Error(1)
}

// MockEventFeedRepository is a mock of EventFeedRepository.
// Owns is not mocked: source selects the features the feed owns, empty owns all.
type MockEventFeedRepository struct {
	mock.Mock
	name   string
	source string
}

func (m *MockEventFeedRepository) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *MockEventFeedRepository) Owns(f domain.GeoFeature) bool {
	return m.source == "" || f.Properties.Source == m.source
}

func (m *MockEventFeedRepository) FetchRows(ctx context.Context) (map[string]domain.SourceRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.SourceRow), args.Error(1)
}

func ptrFloat64(v float64) *float64 {
	return &v
}

func ptrInt(v int) *int {
	return &v
}

func feature(key string, lon, lat float64, props map[string]interface{}) domain.GeoFeature {
	f := domain.NewGeoFeature(lon, lat, props)
	f.Key = key
	return f
}
