package inspect

import (
	"binserve/core/fscache"
	"binserve/core/resolver"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates a new inspect feature.
func NewFeature(r *resolver.Resolver, cache *fscache.Cache, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(NewService(r, cache, logger))}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "inspect"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
