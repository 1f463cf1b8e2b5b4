package site

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"binserve/core/logger"
	"binserve/core/resolver"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

const (
	notFoundBody   = "<!DOCTYPE html><html><head><title>404 Not Found</title></head><body><h1>404 Not Found</h1></body></html>"
	badRequestBody = "<!DOCTYPE html><html><head><title>400 Bad Request</title></head><body><h1>400 Bad Request</h1></body></html>"
	errorBody      = "<!DOCTYPE html><html><head><title>500 Internal Server Error</title></head><body><h1>500 Internal Server Error</h1></body></html>"
)

// Handler writes resolver outcomes as HTTP responses.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the site as a catch-all. It must be registered after
// every other route.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Use(h.Serve)
}

// Serve answers a request from the serve root.
func (h *Handler) Serve(c *fiber.Ctx) error {
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")

	if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
		c.Set(fiber.HeaderAllow, "GET, HEAD")
		return c.SendStatus(fiber.StatusMethodNotAllowed)
	}

	// The resolver decodes the path itself, so it gets the raw form.
	raw := string(c.Request().URI().PathOriginal())
	l := logger.WithRayID(h.service.logger, c)

	t, err := h.service.Resolve(raw)
	if err != nil {
		return h.sendError(c, l, err)
	}

	switch {
	case t.IsRedirect():
		return h.redirect(c, t)
	case t.IsFile():
		return h.sendFile(c, l, t.Path)
	case t.IsNotFound():
		return h.sendNotFound(c, l, t.Path)
	case t.IsInvalid():
		l.Debug("Rejected request path", zap.String("path", raw), zap.String("reason", t.Reason))
		c.Status(fiber.StatusBadRequest)
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(badRequestBody)
	default:
		return h.sendError(c, l, fmt.Errorf("unexpected resolution %s for %s", t.Kind, raw))
	}
}

func (h *Handler) redirect(c *fiber.Ctx, t resolver.Target) error {
	location := t.Location
	if q := c.Request().URI().QueryString(); len(q) > 0 {
		location += "?" + string(q)
	}
	return c.Redirect(location, h.service.cfg.RedirectStatus)
}

func (h *Handler) sendFile(c *fiber.Ctx, l *zap.Logger, path string) error {
	f, info, err := open(path)
	if errors.Is(err, fs.ErrNotExist) {
		// Removed between resolution and open.
		t, err := h.service.resolver.NotFoundTarget()
		if err != nil {
			return h.sendError(c, l, err)
		}
		return h.sendNotFound(c, l, t.Path)
	}
	if err != nil {
		return h.sendError(c, l, err)
	}

	c.Set(fiber.HeaderContentType, contentType(path))
	if cc := h.service.cfg.CacheControl; cc != "" {
		c.Set(fiber.HeaderCacheControl, cc)
	}
	c.Set(fiber.HeaderLastModified, info.ModTime().UTC().Format(http.TimeFormat))
	c.Status(fiber.StatusOK)
	return c.SendStream(f, int(info.Size()))
}

func (h *Handler) sendNotFound(c *fiber.Ctx, l *zap.Logger, doc string) error {
	c.Status(fiber.StatusNotFound)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	if doc == "" {
		return c.SendString(notFoundBody)
	}

	f, info, err := open(doc)
	if errors.Is(err, fs.ErrNotExist) {
		l.Warn("404 document disappeared", zap.String("path", doc))
		return c.SendString(notFoundBody)
	}
	if err != nil {
		return h.sendError(c, l, err)
	}
	return c.SendStream(f, int(info.Size()))
}

func (h *Handler) sendError(c *fiber.Ctx, l *zap.Logger, err error) error {
	l.Error("Failed to resolve request", zap.String("path", c.OriginalURL()), zap.Error(err))
	c.Status(fiber.StatusInternalServerError)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(errorBody)
}

// contentType maps the file extension to a MIME type. Files without an
// extension are sent as binary.
func contentType(path string) string {
	mime := utils.GetMIME(filepath.Ext(path))
	if mime == "" {
		return fiber.MIMEOctetStream
	}
	return mime
}

// open opens a regular file and returns it with its info. The caller hands
// the file to the response, which closes it.
func open(path string) (*os.File, fs.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, fs.ErrNotExist
	}
	return f, info, nil
}
