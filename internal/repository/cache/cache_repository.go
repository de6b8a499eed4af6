package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/domain/repository"
)

const featureCollectionPrefix = "features:collection:"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

// FeatureCollectionKey - ключ кэша с GeoJSON набора данных
func FeatureCollectionKey(dataset string) string {
	return featureCollectionPrefix + dataset
}

func (r *cacheRepository) GetFeatureCollection(ctx context.Context, dataset string) ([]byte, error) {
	key := FeatureCollectionKey(dataset)

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Cache miss", zap.String("dataset", dataset))
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get %s: %w", dataset, err)
	}

	r.logger.Debug("Cache hit", zap.String("dataset", dataset), zap.Int("bytes", len(val)))
	return val, nil
}

func (r *cacheRepository) SetFeatureCollection(ctx context.Context, dataset string, data []byte, ttl time.Duration) error {
	key := FeatureCollectionKey(dataset)

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set %s: %w", dataset, err)
	}

	r.logger.Debug("Cache set",
		zap.String("dataset", dataset),
		zap.Int("bytes", len(data)),
		zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) InvalidateFeatureCollection(ctx context.Context, dataset string) error {
	key := FeatureCollectionKey(dataset)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete %s: %w", dataset, err)
	}

	r.logger.Debug("Cache invalidated", zap.String("dataset", dataset))
	return nil
}
