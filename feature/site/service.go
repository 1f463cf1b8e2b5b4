package site

import (
	"binserve/core/resolver"
	"binserve/core/server"

	"go.uber.org/zap"
)

// Recorder receives request paths that did not resolve to a file.
// Implementations must not block.
type Recorder interface {
	Record(path, kind string)
}

// Service resolves request paths and reports misses.
type Service struct {
	resolver *resolver.Resolver
	cfg      server.Config
	recorder Recorder
	logger   *zap.Logger
}

// NewService creates a new site service. recorder may be nil.
func NewService(r *resolver.Resolver, cfg server.Config, recorder Recorder, logger *zap.Logger) *Service {
	return &Service{
		resolver: r,
		cfg:      cfg,
		recorder: recorder,
		logger:   logger,
	}
}

// Resolve maps a raw request path to a target. Invalid targets are replaced
// by the 404 target when invalid paths are disguised.
func (s *Service) Resolve(rawPath string) (resolver.Target, error) {
	t, err := s.resolver.Resolve(rawPath)
	if err != nil {
		return t, err
	}

	if t.IsInvalid() || t.IsNotFound() {
		if s.recorder != nil {
			s.recorder.Record(rawPath, t.Kind.String())
		}
	}
	if t.IsInvalid() && s.cfg.DisguiseInvalid {
		return s.resolver.NotFoundTarget()
	}
	return t, nil
}
