package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/marchon-locator/internal/calendar"
	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/layers"
	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/usecase/dto"
)

// LayerUseCase раскладывает снимок по слоям карты
type LayerUseCase struct {
	features  *FeatureSetUseCase
	catalogue *layers.Catalogue
	calendar  CalendarSettings
	logger    *zap.Logger
}

// NewLayerUseCase создает LayerUseCase
func NewLayerUseCase(
	features *FeatureSetUseCase,
	catalogue *layers.Catalogue,
	cal CalendarSettings,
	logger *zap.Logger,
) *LayerUseCase {
	return &LayerUseCase{
		features:  features,
		catalogue: catalogue,
		calendar:  cal,
		logger:    logger,
	}
}

// Partition - слои с количеством фич и видимостью.
// Без AllFeatures отбрасываются события раньше DisplayCutoff.
func (uc *LayerUseCase) Partition(ctx context.Context, q dto.LayerQuery) (*dto.LayersResponse, []domain.LayerGroup, error) {
	policy := uc.calendar.Policy()
	if q.Reference != "" {
		ref, err := time.ParseInLocation(calendar.ISODateLayout, q.Reference, policy.Reference.Location())
		if err != nil {
			return nil, nil, apperrors.ErrInvalidEventDate.WithDetails(map[string]interface{}{
				"reference": q.Reference,
			})
		}
		policy = calendar.Policy{Reference: ref, GraceDays: uc.calendar.GraceDays}
	}

	dataset := uc.features.Resolve(q.Dataset)
	set, err := uc.features.Snapshot(ctx, dataset)
	if err != nil {
		return nil, nil, err
	}

	features := set.Features
	if !q.AllFeatures {
		features = calendar.FutureFeatures(features, uc.calendar.DisplayPolicy())
	}

	groups := uc.catalogue.Partition(features, policy)
	visible := layers.Visible(groups, q.Checked)

	on := make(map[string]struct{}, len(visible))
	for _, id := range visible {
		on[id] = struct{}{}
	}

	resp := &dto.LayersResponse{
		Dataset: dataset,
		Bounds:  domain.DefaultBounds,
		Layers:  make([]dto.LayerSummary, 0, len(groups)),
		Visible: visible,
	}
	for _, g := range groups {
		_, isOn := on[g.Layer.ID]
		resp.Layers = append(resp.Layers, dto.LayerSummary{
			Layer:   g.Layer,
			Image:   g.Layer.IconImage(),
			Count:   len(g.Features),
			Visible: isOn,
		})
	}

	return resp, groups, nil
}

// Catalogue - все слои каталога в порядке отрисовки
func (uc *LayerUseCase) Catalogue() []domain.Layer {
	return uc.catalogue.Layers()
}
