package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/pkg/utils"
	"github.com/marchon-locator/internal/pkg/validator"
	"github.com/marchon-locator/internal/usecase"
	"github.com/marchon-locator/internal/usecase/dto"
)

// NearestHandler - поиск ближайшей фичи
type NearestHandler struct {
	nearestUC *usecase.NearestUseCase
	logger    *zap.Logger
}

// NewNearestHandler создает NearestHandler
func NewNearestHandler(nearestUC *usecase.NearestUseCase, logger *zap.Logger) *NearestHandler {
	return &NearestHandler{
		nearestUC: nearestUC,
		logger:    logger,
	}
}

// FindNearestGET godoc
// @Summary Nearest feature
// @Description Ближайшая к точке фича по формуле гаверсинуса
// @Tags Nearest
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param dataset query string false "Dataset name"
// @Param exclude_sources query []string false "Sources to skip" collectionFormat(multi)
// @Param require_source query bool false "Skip features without source"
// @Param layers query []string false "Only features of these layers" collectionFormat(multi)
// @Param limit query int false "Ranked list size (1-50)"
// @Success 200 {object} dto.NearestResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/nearest [get]
func (h *NearestHandler) FindNearestGET(c *fiber.Ctx) error {
	var req dto.NearestRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidRequest(c, err)
	}
	return h.find(c, req)
}

// FindNearest godoc
// @Summary Nearest feature
// @Tags Nearest
// @Accept json
// @Produce json
// @Param request body dto.NearestRequest true "Reference point and filters"
// @Success 200 {object} dto.NearestResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/nearest [post]
func (h *NearestHandler) FindNearest(c *fiber.Ctx) error {
	var req dto.NearestRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidRequest(c, err)
	}
	return h.find(c, req)
}

func (h *NearestHandler) find(c *fiber.Ctx, req dto.NearestRequest) error {
	if err := validator.Validate(&req); err != nil {
		details := validator.Details(err)
		if _, bad := details["Lat"]; bad {
			return utils.SendError(c, apperrors.ErrInvalidCoordinates.WithDetails(details))
		}
		if _, bad := details["Lon"]; bad {
			return utils.SendError(c, apperrors.ErrInvalidCoordinates.WithDetails(details))
		}
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(details))
	}

	result, err := h.nearestUC.FindNearest(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:   result.Candidates,
		Dataset: result.Dataset,
	})
}
