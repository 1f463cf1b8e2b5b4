package inspect

import (
	"binserve/core/fscache"
	"binserve/core/resolver"

	"go.uber.org/zap"
)

// Decision is the resolver's answer for one path, as shown to operators.
type Decision struct {
	Path   string          `json:"path"`
	Kind   string          `json:"kind"`
	Target resolver.Target `json:"target"`
}

// CacheStats describes the metadata cache.
type CacheStats struct {
	Enabled bool   `json:"enabled"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// Service answers operator questions about the running site.
type Service struct {
	resolver *resolver.Resolver
	cache    *fscache.Cache
	logger   *zap.Logger
}

// NewService creates a new inspect service. cache is nil when caching is off.
func NewService(r *resolver.Resolver, cache *fscache.Cache, logger *zap.Logger) *Service {
	return &Service{resolver: r, cache: cache, logger: logger}
}

// Resolve reports what a request for rawPath would be answered with,
// without recording a miss.
func (s *Service) Resolve(rawPath string) (Decision, error) {
	t, err := s.resolver.Resolve(rawPath)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Path: rawPath, Kind: t.Kind.String(), Target: t}, nil
}

// CacheStats returns the cache counters.
func (s *Service) CacheStats() CacheStats {
	if s.cache == nil {
		return CacheStats{}
	}
	hits, misses := s.cache.Stats()
	return CacheStats{Enabled: true, Hits: hits, Misses: misses}
}

// InvalidateCache drops every cached lookup. It reports false when caching
// is off.
func (s *Service) InvalidateCache() bool {
	if s.cache == nil {
		return false
	}
	s.cache.Invalidate()
	return true
}
