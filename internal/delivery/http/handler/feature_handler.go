package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/pkg/utils"
	"github.com/marchon-locator/internal/usecase"
	"github.com/marchon-locator/internal/usecase/dto"
)

// ContentTypeGeoJSON - тип ответа для сырых FeatureCollection
const ContentTypeGeoJSON = "application/geo+json"

// FeatureHandler - снимки наборов данных
type FeatureHandler struct {
	featureUC *usecase.FeatureSetUseCase
	eventUC   *usecase.EventUseCase
	logger    *zap.Logger
}

// NewFeatureHandler создает FeatureHandler
func NewFeatureHandler(featureUC *usecase.FeatureSetUseCase, eventUC *usecase.EventUseCase, logger *zap.Logger) *FeatureHandler {
	return &FeatureHandler{
		featureUC: featureUC,
		eventUC:   eventUC,
		logger:    logger,
	}
}

// GetFeatures godoc
// @Summary Current dataset snapshot
// @Description Возвращает текущий снимок набора данных как GeoJSON FeatureCollection
// @Tags Features
// @Produce application/geo+json
// @Param dataset query string false "Dataset name" default(events)
// @Success 200 {object} map[string]interface{} "FeatureCollection"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/features [get]
func (h *FeatureHandler) GetFeatures(c *fiber.Ctx) error {
	ds, ok := datasetParam(c, "dataset")
	if !ok {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"dataset": ds}))
	}
	ds = h.featureUC.Resolve(ds)

	data, set, err := h.featureUC.GeoJSON(c.Context(), ds)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, ContentTypeGeoJSON)
	c.Set("X-Dataset", ds)
	c.Set(fiber.HeaderLastModified, set.LoadedAt.UTC().Format(time.RFC1123))
	return c.Send(data)
}

// GetFeature godoc
// @Summary Feature popup
// @Description Фича по ключу с данными для попапа: mailto, разобранная дата, метаданные события и слои
// @Tags Features
// @Produce json
// @Param key path string true "Feature key (location or location::host)"
// @Param dataset query string false "Dataset name"
// @Success 200 {object} dto.FeatureDetailResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/features/{key} [get]
func (h *FeatureHandler) GetFeature(c *fiber.Ctx) error {
	ds, ok := datasetParam(c, "dataset")
	if !ok {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"dataset": ds}))
	}

	detail, err := h.eventUC.FeatureDetail(c.Context(), ds, c.Params("key"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, detail, nil)
}

// GetStats godoc
// @Summary Dataset statistics
// @Tags Features
// @Produce json
// @Param dataset query string false "Dataset name"
// @Success 200 {object} domain.FeatureStats
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/stats [get]
func (h *FeatureHandler) GetStats(c *fiber.Ctx) error {
	ds, ok := datasetParam(c, "dataset")
	if !ok {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"dataset": ds}))
	}

	stats, err := h.featureUC.Stats(c.Context(), h.featureUC.Resolve(ds))
	if err != nil {
		h.logger.Error("Failed to get statistics", zap.Error(err))
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, stats, nil)
}

// RefreshDataset godoc
// @Summary Force dataset refresh
// @Description Перечитывает набор из источника в обход кэша и подменяет снимок
// @Tags Features
// @Produce json
// @Param dataset path string true "Dataset name"
// @Success 200 {object} dto.RefreshResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/datasets/{dataset}/refresh [post]
func (h *FeatureHandler) RefreshDataset(c *fiber.Ctx) error {
	ds, ok := datasetParam(c, "dataset")
	if !ok {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"dataset": ds}))
	}

	start := time.Now()
	set, err := h.featureUC.Refresh(c.Context(), ds, true)
	if err != nil {
		return utils.SendError(c, err)
	}

	h.logger.Info("Dataset refreshed on demand", zap.String("dataset", ds), zap.Int("features", set.Len()))
	return utils.SendSuccess(c, dto.RefreshResponse{
		Dataset:  ds,
		Features: set.Len(),
		Skipped:  set.Skipped,
		LoadedAt: set.LoadedAt,
	}, &utils.Meta{
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}
