package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/domain/repository"
	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/pkg/metrics"
)

const defaultGeocodeConcurrency = 4

// SyncUseCase переносит строки внешних источников в хранилище фич
type SyncUseCase struct {
	feeds       []repository.EventFeedRepository
	geocoder    repository.GeocoderRepository
	store       repository.FeatureRepository
	cacheRepo   repository.CacheRepository
	streamRepo  repository.StreamRepository
	countries   []string
	concurrency int
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// SyncOptions - необязательные параметры синхронизации
type SyncOptions struct {
	Countries   []string
	Concurrency int
}

// NewSyncUseCase создает SyncUseCase. cacheRepo и streamRepo могут быть nil.
// Строки более поздних источников перекрывают строки ранних с тем же ключом.
func NewSyncUseCase(
	feeds []repository.EventFeedRepository,
	geocoder repository.GeocoderRepository,
	store repository.FeatureRepository,
	cacheRepo repository.CacheRepository,
	streamRepo repository.StreamRepository,
	opts SyncOptions,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SyncUseCase {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultGeocodeConcurrency
	}
	return &SyncUseCase{
		feeds:       feeds,
		geocoder:    geocoder,
		store:       store,
		cacheRepo:   cacheRepo,
		streamRepo:  streamRepo,
		countries:   opts.Countries,
		concurrency: opts.Concurrency,
		metrics:     m,
		logger:      logger,
	}
}

// Plan собирает и сливает данные, ничего не записывая
func (uc *SyncUseCase) Plan(ctx context.Context, dataset string) (*MergeResult, *domain.SyncReport, error) {
	report := &domain.SyncReport{
		RunID:     uuid.New(),
		Dataset:   dataset,
		StartedAt: time.Now().UTC(),
	}

	if len(uc.feeds) == 0 {
		return nil, report, fmt.Errorf("no upstream feeds configured")
	}

	fetched := make([]map[string]domain.SourceRow, len(uc.feeds))
	var existing []domain.GeoFeature

	// 1. Источники и сохранённый набор параллельно
	g, gctx := errgroup.WithContext(ctx)
	for i, feed := range uc.feeds {
		i, feed := i, feed
		g.Go(func() error {
			rows, err := feed.FetchRows(gctx)
			if err != nil {
				return fmt.Errorf("fetch %s rows: %w", feed.Name(), err)
			}
			uc.logger.Debug("Upstream rows fetched", zap.String("feed", feed.Name()), zap.Int("rows", len(rows)))
			fetched[i] = rows
			return nil
		})
	}
	g.Go(func() error {
		set, err := uc.store.LoadFeatures(gctx, dataset)
		if errors.Is(err, apperrors.ErrDatasetNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load stored dataset: %w", err)
		}
		existing = set.Features
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, report, err
	}

	rows := make(map[string]domain.SourceRow)
	for _, part := range fetched {
		for key, row := range part {
			rows[key] = row
		}
	}
	report.Fetched = len(rows)

	// 2. Геокодируем только новые ключи
	missing := MissingKeys(rows, existing)
	geocoded, err := uc.geocode(ctx, rows, missing)
	if err != nil {
		return nil, report, err
	}
	for key, row := range geocoded {
		rows[key] = row
	}
	report.Geocoded = len(geocoded)
	report.Unmatched = len(missing) - len(geocoded)

	// 3. Слияние
	merged := MergeRows(rows, existing, uc.owned)
	report.Unchanged = merged.Unchanged
	report.Updated = merged.Updated
	report.Inserted = merged.Inserted
	report.Dropped = merged.Dropped
	report.Orphans = len(merged.OrphanKeys)
	report.Kept = merged.Kept
	report.Total = len(merged.Features)

	uc.logger.Info("Sync planned",
		zap.String("run_id", report.RunID.String()),
		zap.String("dataset", dataset),
		zap.Int("fetched", report.Fetched),
		zap.Int("missing", len(missing)),
		zap.Int("geocoded", report.Geocoded),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("updated", report.Updated),
		zap.Int("inserted", report.Inserted),
		zap.Int("dropped", report.Dropped),
		zap.Int("kept", report.Kept),
		zap.Strings("orphans", merged.OrphanKeys))

	return &merged, report, nil
}

// Run - полный цикл: Plan, запись в базу, сброс кэша и событие в стрим
func (uc *SyncUseCase) Run(ctx context.Context, dataset string) (*domain.SyncReport, error) {
	merged, report, err := uc.Plan(ctx, dataset)
	if err != nil {
		uc.finish(report, err)
		return report, err
	}

	if err := uc.store.UpsertFeatures(ctx, dataset, merged.Features); err != nil {
		uc.finish(report, err)
		return report, err
	}

	keep := make([]string, 0, len(merged.Features))
	for _, f := range merged.Features {
		keep = append(keep, f.Key)
	}
	deleted, err := uc.store.DeleteExcept(ctx, dataset, keep)
	if err != nil {
		uc.finish(report, err)
		return report, err
	}
	report.Orphans = int(deleted)

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.InvalidateFeatureCollection(ctx, dataset); err != nil {
			uc.logger.Warn("Failed to invalidate cached dataset", zap.String("dataset", dataset), zap.Error(err))
		}
	}

	uc.finish(report, nil)

	if uc.streamRepo != nil {
		id, err := uc.streamRepo.PublishToStream(ctx, domain.StreamFeaturesRefreshed, report.RefreshedEvent())
		if err != nil {
			uc.logger.Error("Failed to publish refresh event",
				zap.String("dataset", dataset),
				zap.Error(err))
			return report, fmt.Errorf("publish refresh event: %w", err)
		}
		uc.logger.Debug("Refresh event published", zap.String("message_id", id))
	}

	return report, nil
}

// owned - фича принадлежит одному из источников синхронизации
func (uc *SyncUseCase) owned(f domain.GeoFeature) bool {
	for _, feed := range uc.feeds {
		if feed.Owns(f) {
			return true
		}
	}
	return false
}

func (uc *SyncUseCase) finish(report *domain.SyncReport, err error) {
	report.FinishedAt = time.Now().UTC()
	report.Duration = report.FinishedAt.Sub(report.StartedAt)
	uc.metrics.SyncRun(report.Dataset, report.Duration, err)

	if err != nil {
		uc.logger.Error("Sync failed",
			zap.String("run_id", report.RunID.String()),
			zap.String("dataset", report.Dataset),
			zap.Error(err))
		return
	}
	uc.logger.Info("Sync finished",
		zap.String("run_id", report.RunID.String()),
		zap.String("dataset", report.Dataset),
		zap.Int("total", report.Total),
		zap.Int("orphans", report.Orphans),
		zap.Duration("duration", report.Duration))
}

// geocode ищет координаты для ключей keys. Строки без совпадения не возвращаются.
func (uc *SyncUseCase) geocode(ctx context.Context, rows map[string]domain.SourceRow, keys []string) (map[string]domain.SourceRow, error) {
	results := make([]*domain.SourceRow, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			query := rows[key].GeocodeQuery()
			res, err := uc.geocoder.ForwardGeocode(gctx, query, uc.countries)
			if errors.Is(err, domain.ErrNoGeocodeMatch) {
				uc.metrics.Geocode("no_match")
				uc.logger.Warn("Error geocoding", zap.String("key", key), zap.String("query", query))
				return nil
			}
			if err != nil {
				uc.metrics.Geocode("error")
				return fmt.Errorf("geocode %q: %w", key, err)
			}
			uc.metrics.Geocode("ok")

			row := rows[key]
			props := make(map[string]interface{}, len(row.Properties)+1)
			for k, v := range row.Properties {
				props[k] = v
			}
			if res.PlaceName != "" {
				props[domain.PropPlaceName] = res.PlaceName
			}
			results[i] = &domain.SourceRow{
				Key:        key,
				Properties: props,
				Geometry:   &domain.Coordinates{Lon: res.Lon, Lat: res.Lat},
				Query:      row.Query,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]domain.SourceRow, len(keys))
	for _, r := range results {
		if r != nil {
			out[r.Key] = *r
		}
	}
	return out, nil
}
