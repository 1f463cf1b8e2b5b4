package integrity

import (
	"binserve/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/symlinks", h.HandleSymlinkCheck)
	group.Get("/directories", h.HandleDirectoryCheck)
	group.Get("/database", h.HandleDatabaseCheck)
}

// HandleIntegrityCheck runs every check.
// @Summary Run All Integrity Checks
// @Description Checks the serve root (index and 404 documents, symlinks, directories without index, flat page collisions) and, when miss recording is enabled, the database schema.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report "Combined Report"
// @Security ApiKeyAuth
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.Run(c.Context())
	if !report.Healthy {
		l.Warn("Integrity problems detected", zap.Strings("errors", report.Errors))
	}
	return c.JSON(report)
}

// HandleStructureCheck checks the index and 404 documents.
// @Summary Check Structure
// @Description Checks that the root index document and the 404 document exist.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.StructureReport "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckStructure()
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(report.Missing) > 0 {
		l.Warn("Missing documents detected", zap.Strings("missing", report.Missing))
	}
	return c.JSON(report)
}

// HandleSymlinkCheck lists unsafe symlinks.
// @Summary Check Symlinks
// @Description Lists symlinks below the serve root that escape it, dangle, or loop.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Symlink Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /integrity/symlinks [get]
func (h *Handler) HandleSymlinkCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	issues, err := h.service.CheckSymlinks(c.Context())
	if err != nil {
		l.Error("Symlink check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"status":   "checked",
		"symlinks": issues,
	})
}

// HandleDirectoryCheck lists directories that cannot be served.
// @Summary Check Directories
// @Description Lists directories without an index document and, with flat URLs, pages colliding with a directory.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Directory Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /integrity/directories [get]
func (h *Handler) HandleDirectoryCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	dirs, err := h.service.CheckDirectories(c.Context())
	if err != nil {
		l.Error("Directory check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	pages, err := h.service.CheckFlatPages(c.Context())
	if err != nil {
		l.Error("Flat page check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"status":      "checked",
		"directories": dirs,
		"flat_pages":  pages,
	})
}

// HandleDatabaseCheck checks the misses table schema.
// @Summary Check Database Schema
// @Description Checks that the misses table has every expected column.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.DatabaseReport "Database Report"
// @Failure 404 {object} map[string]string "Miss recording disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /integrity/database [get]
func (h *Handler) HandleDatabaseCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if !h.service.HasDatabase() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "miss recording is disabled"})
	}

	report, err := h.service.CheckDatabase()
	if err != nil {
		l.Error("Database schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
