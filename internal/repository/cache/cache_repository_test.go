package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/repository/cache"
)

func getTestRedis(t *testing.T) *cache.Redis {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return cache.WrapClient(client, zap.NewNop())
}

func TestCacheRepository_FeatureCollection(t *testing.T) {
	r := getTestRedis(t)
	repo := cache.NewCacheRepository(r)
	ctx := context.Background()
	dataset := "test-events"

	defer func() { _ = repo.InvalidateFeatureCollection(ctx, dataset) }()

	// промах
	data, err := repo.GetFeatureCollection(ctx, dataset)
	require.NoError(t, err)
	assert.Nil(t, data)

	body := []byte(`{"type":"FeatureCollection","features":[]}`)
	require.NoError(t, repo.SetFeatureCollection(ctx, dataset, body, time.Minute))

	data, err = repo.GetFeatureCollection(ctx, dataset)
	require.NoError(t, err)
	assert.Equal(t, body, data)

	exists, err := r.Client().Exists(ctx, cache.FeatureCollectionKey(dataset)).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, exists)

	ttl, err := r.Client().TTL(ctx, cache.FeatureCollectionKey(dataset)).Result()
	require.NoError(t, err)
	assert.InDelta(t, time.Minute.Seconds(), ttl.Seconds(), 5)

	require.NoError(t, repo.InvalidateFeatureCollection(ctx, dataset))
	exists, err = r.Client().Exists(ctx, cache.FeatureCollectionKey(dataset)).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestFeatureCollectionKey(t *testing.T) {
	assert.Equal(t, "features:collection:events", cache.FeatureCollectionKey("events"))
}
