package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/config"
	"github.com/marchon-locator/internal/delivery/http/handler"
	"github.com/marchon-locator/internal/delivery/http/middleware"
	"github.com/marchon-locator/internal/pkg/metrics"
)

// Handlers - набор хендлеров API
type Handlers struct {
	Health  *handler.HealthHandler
	Feature *handler.FeatureHandler
	Nearest *handler.NearestHandler
	Event   *handler.EventHandler
	Layer   *handler.LayerHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	handlers Handlers
}

// NewServer - создание нового HTTP сервера. m может быть nil, тогда /metrics не регистрируется.
func NewServer(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, handlers Handlers) *Server {
	app := fiber.New(fiber.Config{
		AppName:                  "MarchOn Locator",
		ReadTimeout:              10 * time.Second,
		WriteTimeout:             10 * time.Second,
		IdleTimeout:              60 * time.Second,
		UnescapePath:             true,
		EnableSplittingOnParsers: true,
		ErrorHandler:             customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		metrics:  m,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - fiber.App для тестов через app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger, s.metrics))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	}

	api := s.app.Group("/api/v1")

	api.Get("/health", s.handlers.Health.Health)
	api.Get("/stats", s.handlers.Feature.GetStats)

	// Features
	api.Get("/features", s.handlers.Feature.GetFeatures)
	api.Get("/features/:key", s.handlers.Feature.GetFeature)
	api.Post("/datasets/:dataset/refresh", s.handlers.Feature.RefreshDataset)

	// Nearest
	api.Get("/nearest", s.handlers.Nearest.FindNearestGET)
	api.Post("/nearest", s.handlers.Nearest.FindNearest)

	// Events
	api.Get("/events/upcoming", s.handlers.Event.GetUpcoming)
	api.Get("/events/classified", s.handlers.Event.GetClassified)

	// Layers
	api.Get("/layers", s.handlers.Layer.GetLayers)
	api.Get("/layers/:id/features", s.handlers.Layer.GetLayerFeatures)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := "INTERNAL_SERVER_ERROR"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			if code == fiber.StatusNotFound {
				errCode = "ROUTE_NOT_FOUND"
			} else if code < fiber.StatusInternalServerError {
				errCode = "INVALID_REQUEST"
			}
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    errCode,
				"message": err.Error(),
			},
		})
	}
}
