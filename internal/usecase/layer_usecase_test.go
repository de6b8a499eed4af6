package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/layers"
	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/usecase"
	"github.com/marchon-locator/internal/usecase/dto"
)

func newLayerUseCase(t *testing.T) *usecase.LayerUseCase {
	t.Helper()
	source := &MockFeatureRepository{}
	source.On("LoadFeatures", mock.Anything, "events").Return(eventFeatures(), nil)

	features := usecase.NewFeatureSetUseCase(source, nil, []string{"events"}, "", ttl, nil, zap.NewNop())
	return usecase.NewLayerUseCase(features, layers.Default(), calendarSettings(), zap.NewNop())
}

func layerCounts(resp *dto.LayersResponse) map[string]int {
	out := make(map[string]int, len(resp.Layers))
	for _, l := range resp.Layers {
		out[l.ID] = l.Count
	}
	return out
}

func TestLayerUseCase_Partition(t *testing.T) {
	ctx := context.Background()
	uc := newLayerUseCase(t)

	t.Run("display cutoff drops old and undated features", func(t *testing.T) {
		resp, groups, err := uc.Partition(ctx, dto.LayerQuery{})
		require.NoError(t, err)

		assert.Equal(t, domain.DefaultBounds, resp.Bounds)
		assert.Equal(t, map[string]int{
			"marchon-affiliate-false":        1,
			"marchon-family-sep-events-past": 2,
			"marchon-family-sep-events":      1,
		}, layerCounts(resp))
		assert.Len(t, groups, 3)

		assert.Equal(t, []string{
			"marchon-affiliate-false",
			"marchon-family-sep-events-past",
			"marchon-family-sep-events",
		}, resp.Visible)
		assert.Equal(t, "star-15-red.svg", resp.Layers[0].Image)
		assert.True(t, resp.Layers[0].Visible)
	})

	t.Run("all features", func(t *testing.T) {
		resp, _, err := uc.Partition(ctx, dto.LayerQuery{AllFeatures: true})
		require.NoError(t, err)
		assert.Equal(t, 5, layerCounts(resp)["marchon-family-sep-events-past"])
	})

	t.Run("reference moves the family cutoff", func(t *testing.T) {
		resp, _, err := uc.Partition(ctx, dto.LayerQuery{Reference: "2020-07-01"})
		require.NoError(t, err)
		assert.Equal(t, 2, layerCounts(resp)["marchon-family-sep-events"])
	})

	t.Run("checked layers", func(t *testing.T) {
		resp, _, err := uc.Partition(ctx, dto.LayerQuery{Checked: []string{"marchon-family-sep-events"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"marchon-family-sep-events"}, resp.Visible)
		assert.False(t, resp.Layers[0].Visible)
	})

	t.Run("invalid reference", func(t *testing.T) {
		_, _, err := uc.Partition(ctx, dto.LayerQuery{Reference: "tomorrow"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidEventDate)
	})

	assert.Len(t, uc.Catalogue(), 6)
}
