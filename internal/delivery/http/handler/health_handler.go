package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/pkg/utils"
	"github.com/marchon-locator/internal/usecase"
	"github.com/marchon-locator/internal/usecase/dto"
)

// HealthChecker - зависимость, которую можно пропинговать
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler - состояние сервиса
type HealthHandler struct {
	featureUC *usecase.FeatureSetUseCase
	checks    map[string]HealthChecker
	logger    *zap.Logger
}

// NewHealthHandler создает HealthHandler. checks может быть пустым.
func NewHealthHandler(featureUC *usecase.FeatureSetUseCase, checks map[string]HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		featureUC: featureUC,
		checks:    checks,
		logger:    logger,
	}
}

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:   "healthy",
		Checks:   make(map[string]string, len(h.checks)),
		Datasets: make(map[string]int),
	}

	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = err.Error()
			resp.Status = "unhealthy"
			continue
		}
		resp.Checks[name] = "ok"
	}

	// снимки не загружаются ради health, показываем только готовые
	for _, ds := range h.featureUC.Datasets() {
		if set, ok := h.featureUC.Loaded(ds); ok {
			resp.Datasets[ds] = set.Len()
		}
	}

	if resp.Status != "healthy" {
		c.Status(fiber.StatusServiceUnavailable)
	}
	return utils.SendSuccess(c, resp, nil)
}
