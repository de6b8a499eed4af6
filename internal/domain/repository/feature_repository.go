package repository

import (
	"context"

	"github.com/marchon-locator/internal/domain"
)

// FeatureSource - источник полного набора фич (S3-файл или база)
type FeatureSource interface {
	// LoadFeatures загружает весь набор данных целиком
	LoadFeatures(ctx context.Context, dataset string) (*domain.FeatureSet, error)
}

// FeatureRepository - хранилище фич по наборам данных
type FeatureRepository interface {
	FeatureSource

	// UpsertFeatures вставляет или обновляет фичи набора
	UpsertFeatures(ctx context.Context, dataset string, features []domain.GeoFeature) error

	// DeleteExcept удаляет фичи набора, ключей которых нет в keep
	DeleteExcept(ctx context.Context, dataset string, keep []string) (int64, error)

	// ListDatasets возвращает известные наборы данных
	ListDatasets(ctx context.Context) ([]string, error)
}
