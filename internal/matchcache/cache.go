package matchcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/josecerv/search-costs-experiment-sub000/internal/logging"
	"github.com/josecerv/search-costs-experiment-sub000/internal/refmatch"
	"github.com/josecerv/search-costs-experiment-sub000/internal/store"
)

const defaultFlushInterval = 5 * time.Second

// Cache provides thread-safe memoization of oracle verdicts. Reads fall
// through to the store on a memory miss; writes are buffered and flushed on
// an interval and on Close.
type Cache struct {
	store  *store.Store
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string][]refmatch.Decision
	dirty   map[string][]refmatch.Decision

	flushEvery time.Duration
	stop       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

// Option customizes the cache.
type Option func(*Cache)

// WithFlushInterval overrides how often buffered writes reach the store.
func WithFlushInterval(interval time.Duration) Option {
	return func(c *Cache) {
		if interval > 0 {
			c.flushEvery = interval
		}
	}
}

// New builds a cache over the given store and starts the flush loop.
func New(s *store.Store, logger *slog.Logger, opts ...Option) (*Cache, error) {
	if s == nil {
		return nil, errors.New("matchcache: store required")
	}
	c := &Cache{
		store:      s,
		logger:     logging.NewComponentLogger(logger, "matchcache"),
		entries:    make(map[string][]refmatch.Decision),
		dirty:      make(map[string][]refmatch.Decision),
		flushEvery: defaultFlushInterval,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.flushLoop()
	return c, nil
}

// Get implements refmatch.DecisionCache. A store-level corruption error
// propagates; the adjudicator treats it as an oracle failure rather than
// re-spending the call silently.
func (c *Cache) Get(key string) ([]refmatch.Decision, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	c.mu.RLock()
	decisions, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cloneDecisions(decisions), true, nil
	}

	decisions, ok, err := c.store.CacheGet(context.Background(), key)
	if err != nil {
		return nil, false, fmt.Errorf("matchcache get: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	c.mu.Lock()
	c.entries[key] = cloneDecisions(decisions)
	c.mu.Unlock()
	return decisions, true, nil
}

// Put implements refmatch.DecisionCache. The verdict is visible to
// subsequent Gets immediately; persistence happens on the next flush.
func (c *Cache) Put(key string, decisions []refmatch.Decision) error {
	if key == "" {
		return errors.New("matchcache put: empty key")
	}

	stored := cloneDecisions(decisions)
	c.mu.Lock()
	c.entries[key] = stored
	c.dirty[key] = stored
	c.mu.Unlock()
	return nil
}

// Flush writes all buffered verdicts to the store.
func (c *Cache) Flush(ctx context.Context) error {
	c.mu.Lock()
	pending := c.dirty
	c.dirty = make(map[string][]refmatch.Decision)
	c.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	var firstErr error
	for key, decisions := range pending {
		if err := c.store.CachePut(ctx, key, decisions); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			// Keep the entry dirty so a later flush retries it.
			c.mu.Lock()
			if _, exists := c.dirty[key]; !exists {
				c.dirty[key] = decisions
			}
			c.mu.Unlock()
			c.logger.Warn("cache flush failed",
				logging.String(logging.FieldCacheKey, key),
				logging.Error(err))
		}
	}
	return firstErr
}

// Close stops the flush loop and writes any remaining buffered verdicts.
func (c *Cache) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done
		err = c.Flush(context.Background())
	})
	return err
}

func (c *Cache) flushLoop() {
	defer close(c.done)
	ticker := time.NewTicker(c.flushEvery)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if err := c.Flush(context.Background()); err != nil {
				c.logger.Warn("periodic cache flush failed", logging.Error(err))
			}
		}
	}
}

func cloneDecisions(decisions []refmatch.Decision) []refmatch.Decision {
	if decisions == nil {
		return nil
	}
	out := make([]refmatch.Decision, len(decisions))
	copy(out, decisions)
	return out
}
