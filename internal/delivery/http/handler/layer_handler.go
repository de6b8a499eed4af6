package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/domain"
	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/pkg/utils"
	"github.com/marchon-locator/internal/pkg/validator"
	"github.com/marchon-locator/internal/usecase"
	"github.com/marchon-locator/internal/usecase/dto"
)

// LayerHandler - слои карты
type LayerHandler struct {
	layerUC *usecase.LayerUseCase
	logger  *zap.Logger
}

// NewLayerHandler создает LayerHandler
func NewLayerHandler(layerUC *usecase.LayerUseCase, logger *zap.Logger) *LayerHandler {
	return &LayerHandler{
		layerUC: layerUC,
		logger:  logger,
	}
}

func (h *LayerHandler) parseQuery(c *fiber.Ctx) (dto.LayerQuery, error) {
	var q dto.LayerQuery
	if err := c.QueryParser(&q); err != nil {
		return q, err
	}
	return q, validator.Validate(&q)
}

// GetLayers godoc
// @Summary Map layers
// @Description Разбиение набора на слои легенды с количеством фич и видимостью
// @Tags Layers
// @Produce json
// @Param dataset query string false "Dataset name"
// @Param checked query []string false "Checked layer ids" collectionFormat(multi)
// @Param reference query string false "Reference date YYYY-MM-DD"
// @Param all query bool false "Keep events before the display cutoff"
// @Success 200 {object} dto.LayersResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/layers [get]
func (h *LayerHandler) GetLayers(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return invalidRequest(c, err)
	}

	result, _, err := h.layerUC.Partition(c.Context(), q)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{
		Total:   len(result.Layers),
		Dataset: result.Dataset,
	})
}

// GetLayerFeatures godoc
// @Summary Layer features
// @Description Фичи одного слоя как GeoJSON FeatureCollection
// @Tags Layers
// @Produce application/geo+json
// @Param id path string true "Layer id"
// @Param dataset query string false "Dataset name"
// @Param all query bool false "Keep events before the display cutoff"
// @Success 200 {object} map[string]interface{} "FeatureCollection"
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/layers/{id}/features [get]
func (h *LayerHandler) GetLayerFeatures(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return invalidRequest(c, err)
	}

	id := c.Params("id")
	known := false
	for _, l := range h.layerUC.Catalogue() {
		if l.ID == id {
			known = true
			break
		}
	}
	if !known {
		return utils.SendError(c, apperrors.ErrFeatureNotFound.WithMessage("Unknown layer").WithDetails(map[string]interface{}{
			"layer_id": id,
		}))
	}

	_, groups, err := h.layerUC.Partition(c.Context(), q)
	if err != nil {
		return utils.SendError(c, err)
	}

	features := make([]domain.GeoFeature, 0)
	for _, g := range groups {
		if g.Layer.ID == id {
			features = g.Features
			break
		}
	}

	data, err := domain.EncodeFeatureCollection(features)
	if err != nil {
		h.logger.Error("Failed to encode layer", zap.String("layer_id", id), zap.Error(err))
		return utils.SendError(c, err)
	}
	c.Set(fiber.HeaderContentType, ContentTypeGeoJSON)
	return c.Send(data)
}
