package misses

import (
	"binserve/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Handler handles HTTP requests for recorded misses.
type Handler struct {
	store     *Store
	collector *Collector
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. collector may be nil.
func NewHandler(store *Store, collector *Collector, logger *zap.Logger) *Handler {
	return &Handler{store: store, collector: collector, logger: logger}
}

// RegisterRoutes registers the misses routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/misses", h.HandleTop)
}

// HandleTop returns the most frequent unresolved paths.
// @Summary List Misses
// @Description Lists the request paths that most often ended in a 404 or were rejected.
// @Tags misses
// @Produce json
// @Param limit query int false "Maximum number of entries (default 50, max 500)"
// @Success 200 {object} map[string]interface{} "Misses"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /misses [get]
func (h *Handler) HandleTop(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	top, err := h.store.Top(c.Context(), limit)
	if err != nil {
		l.Error("Failed to list misses", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var dropped uint64
	if h.collector != nil {
		dropped = h.collector.Dropped()
	}
	return c.JSON(fiber.Map{
		"misses":  top,
		"dropped": dropped,
	})
}
