package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/layers"
	"github.com/marchon-locator/internal/locator"
	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/pkg/metrics"
	"github.com/marchon-locator/internal/usecase/dto"
)

// NearestUseCase ищет ближайшую к пользователю фичу
type NearestUseCase struct {
	features  *FeatureSetUseCase
	catalogue *layers.Catalogue
	calendar  CalendarSettings
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewNearestUseCase создает NearestUseCase
func NewNearestUseCase(
	features *FeatureSetUseCase,
	catalogue *layers.Catalogue,
	cal CalendarSettings,
	m *metrics.Metrics,
	logger *zap.Logger,
) *NearestUseCase {
	return &NearestUseCase{
		features:  features,
		catalogue: catalogue,
		calendar:  cal,
		metrics:   m,
		logger:    logger,
	}
}

// FindNearest - ближайшая фича после фильтров; при limit > 1 ещё и ранжированный список
func (uc *NearestUseCase) FindNearest(ctx context.Context, req dto.NearestRequest) (*dto.NearestResponse, error) {
	if req.Lat == nil || req.Lon == nil {
		return nil, apperrors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"lat": "required",
			"lon": "required",
		})
	}
	ref := domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon}
	if err := locator.ValidatePoint(ref); err != nil {
		return nil, apperrors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"lat": ref.Lat,
			"lon": ref.Lon,
		})
	}

	dataset := uc.features.Resolve(req.Dataset)
	set, err := uc.features.Snapshot(ctx, dataset)
	if err != nil {
		return nil, err
	}

	candidates := uc.candidates(set.Features, req)

	best, err := locator.FindNearest(ref, candidates)
	if errors.Is(err, locator.ErrNotFound) {
		uc.metrics.Lookup(false)
		uc.logger.Debug("No candidates for nearest lookup",
			zap.String("dataset", dataset),
			zap.Int("total", set.Len()))
		return nil, apperrors.ErrFeatureNotFound.WithDetails(map[string]interface{}{
			"dataset":    dataset,
			"candidates": 0,
		})
	}
	if err != nil {
		return nil, err
	}
	uc.metrics.Lookup(true)

	resp := &dto.NearestResponse{
		Dataset:    dataset,
		Reference:  ref,
		Nearest:    toNearestMatch(best),
		Candidates: len(candidates),
	}
	if req.Limit > 1 {
		ranked := locator.RankByDistance(ref, candidates, req.Limit)
		resp.Ranked = make([]dto.NearestMatch, 0, len(ranked))
		for _, m := range ranked {
			resp.Ranked = append(resp.Ranked, toNearestMatch(m))
		}
	}

	return resp, nil
}

func (uc *NearestUseCase) candidates(features []domain.GeoFeature, req dto.NearestRequest) []domain.GeoFeature {
	if len(req.Layers) > 0 {
		features = uc.catalogue.Select(features, uc.calendar.Policy(), req.Layers)
	}

	var preds []locator.Predicate
	if len(req.ExcludeSources) > 0 {
		preds = append(preds, locator.ExcludeSources(req.ExcludeSources...))
	}
	if req.RequireSource {
		preds = append(preds, locator.RequireSource())
	}
	return locator.Filter(features, preds...)
}

func toNearestMatch(m locator.Match) dto.NearestMatch {
	return dto.NearestMatch{
		Feature:    dto.NewFeatureResponse(m.Feature),
		DistanceKm: m.DistanceKm,
	}
}
