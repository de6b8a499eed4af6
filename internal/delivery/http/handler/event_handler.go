package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/pkg/utils"
	"github.com/marchon-locator/internal/pkg/validator"
	"github.com/marchon-locator/internal/usecase"
	"github.com/marchon-locator/internal/usecase/dto"
)

// EventHandler - классификация событий
type EventHandler struct {
	eventUC *usecase.EventUseCase
	logger  *zap.Logger
}

// NewEventHandler создает EventHandler
func NewEventHandler(eventUC *usecase.EventUseCase, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventUC: eventUC,
		logger:  logger,
	}
}

func (h *EventHandler) parseQuery(c *fiber.Ctx) (dto.EventQuery, error) {
	var q dto.EventQuery
	if err := c.QueryParser(&q); err != nil {
		return q, err
	}
	return q, validator.Validate(&q)
}

// GetUpcoming godoc
// @Summary Upcoming events
// @Description Будущие события, отсортированные по дате и названию
// @Tags Events
// @Produce json
// @Param dataset query string false "Dataset name"
// @Param reference query string false "Reference date YYYY-MM-DD (default: today)"
// @Param grace_days query int false "Days after which an event becomes past"
// @Param cutoff query string false "Fixed cutoff date YYYY-MM-DD"
// @Param limit query int false "Max events"
// @Success 200 {object} dto.UpcomingEventsResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/events/upcoming [get]
func (h *EventHandler) GetUpcoming(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return invalidRequest(c, err)
	}

	result, err := h.eventUC.Upcoming(c.Context(), q)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{
		Total:   len(result.Events),
		Dataset: result.Dataset,
	})
}

// GetClassified godoc
// @Summary Past and future events
// @Tags Events
// @Produce json
// @Param dataset query string false "Dataset name"
// @Param reference query string false "Reference date YYYY-MM-DD"
// @Param grace_days query int false "Grace days"
// @Param cutoff query string false "Fixed cutoff date YYYY-MM-DD"
// @Success 200 {object} dto.ClassifiedEventsResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/events/classified [get]
func (h *EventHandler) GetClassified(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return invalidRequest(c, err)
	}

	result, err := h.eventUC.Classified(c.Context(), q)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{
		Total:   len(result.Past) + len(result.Future),
		Dataset: result.Dataset,
	})
}
