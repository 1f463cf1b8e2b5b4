package misses

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultBuffer is the number of pending misses a Collector holds.
const DefaultBuffer = 1024

// writeTimeout bounds a single store write.
const writeTimeout = 5 * time.Second

type event struct {
	path string
	kind string
}

// Collector records misses in the background. Record never blocks: when the
// buffer is full the miss is dropped and counted.
type Collector struct {
	store   *Store
	events  chan event
	dropped atomic.Uint64
	logger  *zap.Logger
}

// NewCollector creates a collector writing to store. Call Run to start it.
func NewCollector(store *Store, buffer int, logger *zap.Logger) *Collector {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Collector{
		store:  store,
		events: make(chan event, buffer),
		logger: logger,
	}
}

// Record queues a miss.
func (c *Collector) Record(path, kind string) {
	select {
	case c.events <- event{path: path, kind: kind}:
	default:
		c.dropped.Add(1)
	}
}

// Dropped returns the number of misses lost to a full buffer.
func (c *Collector) Dropped() uint64 {
	return c.dropped.Load()
}

// Run writes queued misses until ctx is done, then flushes what is buffered.
func (c *Collector) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.flush()
			return
		case ev := <-c.events:
			c.write(ev)
		}
	}
}

func (c *Collector) flush() {
	for {
		select {
		case ev := <-c.events:
			c.write(ev)
		default:
			if n := c.Dropped(); n > 0 {
				c.logger.Warn("Misses dropped", zap.Uint64("count", n))
			}
			return
		}
	}
}

func (c *Collector) write(ev event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := c.store.Record(ctx, ev.path, ev.kind); err != nil {
		c.logger.Warn("Failed to record miss", zap.Error(err))
	}
}

// NopRecorder discards misses.
type NopRecorder struct{}

// Record does nothing.
func (NopRecorder) Record(string, string) {}
