package repository

import (
	"context"
	"time"
)

// CacheRepository - кэш сериализованных наборов данных между процессами
type CacheRepository interface {
	// GetFeatureCollection возвращает GeoJSON набора, nil при промахе
	GetFeatureCollection(ctx context.Context, dataset string) ([]byte, error)

	// SetFeatureCollection сохраняет GeoJSON набора данных
	SetFeatureCollection(ctx context.Context, dataset string, data []byte, ttl time.Duration) error

	// InvalidateFeatureCollection сбрасывает GeoJSON набора данных
	InvalidateFeatureCollection(ctx context.Context, dataset string) error
}
