package fscache

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"binserve/core/resolver"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

var _ resolver.FS = (*Cache)(nil)

type op byte

const (
	opStat op = 's'
	opEval op = 'e'
)

// entry is one cached lookup result.
type entry struct {
	info    fs.FileInfo
	real    string
	err     error
	expires time.Time
}

// Cache is a read-through cache over a resolver.FS.
//
// Entries live in a sync.Map published through an atomic pointer: lookups
// never lock, and Invalidate replaces the whole map with a single pointer
// swap. Concurrent misses for the same key share one syscall, and the number
// of syscalls in flight is bounded by a semaphore.
type Cache struct {
	base    resolver.FS
	ttl     time.Duration
	entries atomic.Pointer[sync.Map]
	sf      singleflight.Group
	sem     *semaphore.Weighted
	now     func() time.Time

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New wraps base. A nil base uses the operating system.
func New(base resolver.FS, cfg Config) *Cache {
	if base == nil {
		base = resolver.OSFS{}
	}
	c := &Cache{
		base: base,
		ttl:  cfg.TTL(),
		sem:  semaphore.NewWeighted(cfg.WorkerCount()),
		now:  time.Now,
	}
	c.entries.Store(new(sync.Map))
	return c
}

// Stat returns cached file info for name.
func (c *Cache) Stat(name string) (fs.FileInfo, error) {
	e := c.lookup(opStat, name, func() entry {
		info, err := c.base.Stat(name)
		return entry{info: info, err: err}
	})
	return e.info, e.err
}

// EvalSymlinks returns the cached canonical form of name.
func (c *Cache) EvalSymlinks(name string) (string, error) {
	e := c.lookup(opEval, name, func() entry {
		real, err := c.base.EvalSymlinks(name)
		return entry{real: real, err: err}
	})
	return e.real, e.err
}

// Invalidate drops every cached entry.
func (c *Cache) Invalidate() {
	c.entries.Store(new(sync.Map))
}

// Stats reports cache hits and misses since startup.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Cache) lookup(o op, name string, load func() entry) entry {
	key := string(o) + name
	m := c.entries.Load()

	if v, ok := m.Load(key); ok {
		e := v.(entry)
		if c.now().Before(e.expires) {
			c.hits.Add(1)
			return e
		}
	}
	c.misses.Add(1)

	v, _, _ := c.sf.Do(key, func() (any, error) {
		// Lookups are not cancellable; the semaphore only paces them.
		_ = c.sem.Acquire(context.Background(), 1)
		e := load()
		c.sem.Release(1)

		if cacheable(e.err) {
			e.expires = c.now().Add(c.ttl)
			// Store into the map observed before the load. If the cache was
			// invalidated meanwhile, the entry lands in the discarded map.
			m.Store(key, e)
		}
		return e, nil
	})
	return v.(entry)
}

// cacheable reports whether a lookup result may be reused. Faults such as
// permission errors are always retried.
func cacheable(err error) bool {
	return err == nil || errors.Is(err, fs.ErrNotExist)
}
