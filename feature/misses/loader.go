package misses

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	store   *Store
	handler *Handler
}

// NewFeature creates the misses feature. It is disabled when store is nil.
func NewFeature(store *Store, collector *Collector, logger *zap.Logger) *Feature {
	return &Feature{store: store, handler: NewHandler(store, collector, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "misses"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.store != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
