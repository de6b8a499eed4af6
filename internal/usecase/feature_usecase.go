package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/domain/repository"
	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/pkg/metrics"
)

// FeatureSetUseCase держит текущие снимки наборов данных.
// Снимок заменяется целиком: читатели видят либо старый, либо новый набор.
type FeatureSetUseCase struct {
	source      repository.FeatureSource
	cacheRepo   repository.CacheRepository
	cacheTTL    time.Duration
	snapshots   map[string]*atomic.Pointer[domain.FeatureSet]
	datasets    []string
	fallback    string
	group       singleflight.Group
	loadTimeout time.Duration
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

const defaultLoadTimeout = 30 * time.Second

// NewFeatureSetUseCase создает FeatureSetUseCase. cacheRepo может быть nil,
// defaultDataset подставляется в запросы без явного набора.
func NewFeatureSetUseCase(
	source repository.FeatureSource,
	cacheRepo repository.CacheRepository,
	datasets []string,
	defaultDataset string,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *FeatureSetUseCase {
	snapshots := make(map[string]*atomic.Pointer[domain.FeatureSet], len(datasets))
	names := make([]string, 0, len(datasets))
	for _, ds := range datasets {
		if _, dup := snapshots[ds]; dup {
			continue
		}
		snapshots[ds] = &atomic.Pointer[domain.FeatureSet]{}
		names = append(names, ds)
	}
	if defaultDataset == "" && len(names) > 0 {
		defaultDataset = names[0]
	}

	return &FeatureSetUseCase{
		source:      source,
		cacheRepo:   cacheRepo,
		cacheTTL:    cacheTTL,
		snapshots:   snapshots,
		datasets:    names,
		fallback:    defaultDataset,
		loadTimeout: defaultLoadTimeout,
		metrics:     m,
		logger:      logger,
	}
}

// Datasets - сконфигурированные наборы данных
func (uc *FeatureSetUseCase) Datasets() []string {
	out := make([]string, len(uc.datasets))
	copy(out, uc.datasets)
	return out
}

// Resolve подставляет набор по умолчанию вместо пустого имени
func (uc *FeatureSetUseCase) Resolve(dataset string) string {
	if dataset == "" {
		return uc.fallback
	}
	return dataset
}

// Has - набор данных сконфигурирован
func (uc *FeatureSetUseCase) Has(dataset string) bool {
	_, ok := uc.snapshots[dataset]
	return ok
}

// Loaded - снимок уже загружен, без обращения к источнику
func (uc *FeatureSetUseCase) Loaded(dataset string) (*domain.FeatureSet, bool) {
	p, ok := uc.snapshots[dataset]
	if !ok {
		return nil, false
	}
	set := p.Load()
	return set, set != nil
}

// Snapshot возвращает текущий снимок, при первом обращении загружает его
func (uc *FeatureSetUseCase) Snapshot(ctx context.Context, dataset string) (*domain.FeatureSet, error) {
	if !uc.Has(dataset) {
		return nil, apperrors.ErrDatasetNotFound.WithDetails(map[string]interface{}{"dataset": dataset})
	}
	if set, ok := uc.Loaded(dataset); ok {
		return set, nil
	}
	return uc.Refresh(ctx, dataset, false)
}

// Refresh загружает набор (кэш, затем источник) и атомарно подменяет снимок.
// force пропускает кэш. При ошибке старый снимок остаётся на месте.
//
// Загрузки одного набора не пересекаются: принудительный вызов, попавший на
// обычную загрузку, дожидается её и загружает набор заново. Сама загрузка не
// зависит от отмены ctx, ctx ограничивает только ожидание вызывающего.
func (uc *FeatureSetUseCase) Refresh(ctx context.Context, dataset string, force bool) (*domain.FeatureSet, error) {
	p, ok := uc.snapshots[dataset]
	if !ok {
		return nil, apperrors.ErrDatasetNotFound.WithDetails(map[string]interface{}{"dataset": dataset})
	}

	for {
		ch := uc.group.DoChan(dataset, func() (interface{}, error) {
			return uc.loadAndStore(ctx, p, dataset, force)
		})

		var res singleflight.Result
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res = <-ch:
		}

		out := res.Val.(loadResult)
		if force && !out.forced {
			continue
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return out.set, nil
	}
}

// SetLoadTimeout ограничивает одну загрузку набора
func (uc *FeatureSetUseCase) SetLoadTimeout(d time.Duration) {
	if d > 0 {
		uc.loadTimeout = d
	}
}

type loadResult struct {
	set    *domain.FeatureSet
	forced bool
}

func (uc *FeatureSetUseCase) loadAndStore(ctx context.Context, p *atomic.Pointer[domain.FeatureSet], dataset string, force bool) (interface{}, error) {
	lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.loadTimeout)
	defer cancel()

	set, err := uc.load(lctx, dataset, force)
	if err != nil {
		return loadResult{forced: force}, err
	}
	p.Store(set)
	uc.metrics.SetSnapshot(dataset, set.Len(), set.LoadedAt)
	uc.logger.Info("Snapshot replaced",
		zap.String("dataset", dataset),
		zap.Bool("force", force),
		zap.Int("features", set.Len()),
		zap.Int("skipped", set.Skipped))
	return loadResult{set: set, forced: force}, nil
}

// RefreshAll загружает все наборы параллельно
func (uc *FeatureSetUseCase) RefreshAll(ctx context.Context, force bool) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, ds := range uc.datasets {
		ds := ds
		g.Go(func() error {
			if _, err := uc.Refresh(ctx, ds, force); err != nil {
				return fmt.Errorf("refresh %s: %w", ds, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (uc *FeatureSetUseCase) load(ctx context.Context, dataset string, force bool) (*domain.FeatureSet, error) {
	// 1. Кэш
	if !force && uc.cacheRepo != nil {
		set, err := uc.fromCache(ctx, dataset)
		if err != nil {
			uc.logger.Warn("Failed to read dataset from cache", zap.String("dataset", dataset), zap.Error(err))
		}
		if set != nil {
			uc.metrics.Refresh(dataset, "cache", nil)
			return set, nil
		}
	}

	// 2. Источник
	set, err := uc.source.LoadFeatures(ctx, dataset)
	uc.metrics.Refresh(dataset, "origin", err)
	if err != nil {
		uc.logger.Error("Failed to load dataset", zap.String("dataset", dataset), zap.Error(err))
		return nil, err
	}

	// 3. Кэшируем
	if uc.cacheRepo != nil {
		data, err := domain.EncodeFeatureCollection(set.Features)
		if err != nil {
			uc.logger.Warn("Failed to encode dataset for cache", zap.Error(err))
		} else if err := uc.cacheRepo.SetFeatureCollection(ctx, dataset, data, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache dataset", zap.String("dataset", dataset), zap.Error(err))
		}
	}
	return set, nil
}

func (uc *FeatureSetUseCase) fromCache(ctx context.Context, dataset string) (*domain.FeatureSet, error) {
	data, err := uc.cacheRepo.GetFeatureCollection(ctx, dataset)
	if err != nil || data == nil {
		return nil, err
	}

	features, skipped, err := domain.DecodeFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("Dataset loaded from cache", zap.String("dataset", dataset), zap.Int("features", len(features)))

	return &domain.FeatureSet{
		Dataset:  dataset,
		Features: features,
		Skipped:  skipped,
		LoadedAt: time.Now().UTC(),
	}, nil
}

// FeatureByKey ищет фичу в текущем снимке
func (uc *FeatureSetUseCase) FeatureByKey(ctx context.Context, dataset, key string) (domain.GeoFeature, error) {
	set, err := uc.Snapshot(ctx, dataset)
	if err != nil {
		return domain.GeoFeature{}, err
	}
	for _, f := range set.Features {
		if f.Key == key {
			return f, nil
		}
	}
	return domain.GeoFeature{}, apperrors.ErrFeatureNotFound.WithDetails(map[string]interface{}{
		"dataset": dataset,
		"key":     key,
	})
}

// GeoJSON - текущий снимок в виде FeatureCollection
func (uc *FeatureSetUseCase) GeoJSON(ctx context.Context, dataset string) ([]byte, *domain.FeatureSet, error) {
	set, err := uc.Snapshot(ctx, dataset)
	if err != nil {
		return nil, nil, err
	}
	data, err := domain.EncodeFeatureCollection(set.Features)
	if err != nil {
		return nil, nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, set, nil
}

// Stats - сводка по снимку
func (uc *FeatureSetUseCase) Stats(ctx context.Context, dataset string) (*domain.FeatureStats, error) {
	set, err := uc.Snapshot(ctx, dataset)
	if err != nil {
		return nil, err
	}

	stats := &domain.FeatureStats{
		Dataset:     dataset,
		Total:       set.Len(),
		Skipped:     set.Skipped,
		BySource:    make(map[string]int),
		LastUpdated: set.LoadedAt,
	}
	for _, f := range set.Features {
		src := f.Properties.Source
		if src == "" {
			src = "none"
		}
		stats.BySource[src]++
		if f.Properties.HasEventDate() {
			stats.WithEvents++
		}
	}
	return stats, nil
}
