package inspect

import (
	"binserve/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the inspection routes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inspection routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)
	app.Get("/resolve", h.HandleResolve)
	app.Get("/cache", h.HandleCacheStats)
	app.Post("/cache/invalidate", h.HandleCacheInvalidate)
}

// HandleHealth reports liveness.
// @Summary Health
// @Tags inspect
// @Produce json
// @Success 200 {object} map[string]string "OK"
// @Security ApiKeyAuth
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleResolve shows how a request path would be resolved.
// @Summary Resolve Path
// @Description Runs the resolver on a raw request path (percent-encoded, without query) and returns its decision.
// @Tags inspect
// @Produce json
// @Param path query string true "Raw request path, e.g. /about"
// @Success 200 {object} Decision "Decision"
// @Failure 400 {object} map[string]string "Missing path"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /resolve [get]
func (h *Handler) HandleResolve(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query parameter 'path' is required"})
	}

	decision, err := h.service.Resolve(path)
	if err != nil {
		l.Error("Resolve failed", zap.String("path", path), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(decision)
}

// HandleCacheStats returns metadata cache counters.
// @Summary Cache Stats
// @Tags inspect
// @Produce json
// @Success 200 {object} CacheStats "Cache Stats"
// @Security ApiKeyAuth
// @Router /cache [get]
func (h *Handler) HandleCacheStats(c *fiber.Ctx) error {
	return c.JSON(h.service.CacheStats())
}

// HandleCacheInvalidate clears the metadata cache.
// @Summary Invalidate Cache
// @Description Drops every cached filesystem lookup so the next requests see the current serve root.
// @Tags inspect
// @Produce json
// @Success 200 {object} map[string]string "Invalidated"
// @Security ApiKeyAuth
// @Router /cache/invalidate [post]
func (h *Handler) HandleCacheInvalidate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if !h.service.InvalidateCache() {
		return c.JSON(fiber.Map{"status": "disabled"})
	}
	l.Info("Metadata cache invalidated")
	return c.JSON(fiber.Map{"status": "invalidated"})
}
