package generation

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// engineCache holds one Engine per model id. Concurrent misses for the same
// id share a single construction; failed constructions are not stored.
type engineCache struct {
	factory EngineFactory

	mu      sync.RWMutex
	engines map[string]Engine
	group   singleflight.Group
}

func newEngineCache(factory EngineFactory) *engineCache {
	return &engineCache{
		factory: factory,
		engines: make(map[string]Engine),
	}
}

func (c *engineCache) lookup(modelID string) (Engine, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.engines[modelID]
	return e, ok
}

func (c *engineCache) get(ctx context.Context, modelID string) (Engine, error) {
	if e, ok := c.lookup(modelID); ok {
		return e, nil
	}

	v, err, _ := c.group.Do(modelID, func() (interface{}, error) {
		if e, ok := c.lookup(modelID); ok {
			return e, nil
		}

		slog.Info("[EngineCache] Initializing generation engine", slog.String("model", modelID))
		start := time.Now()
		e, err := c.factory(ctx, modelID)
		if err != nil {
			slog.Error("[EngineCache] Failed to initialize generation engine",
				slog.String("model", modelID),
				slog.String("error", err.Error()))
			return nil, err
		}

		c.mu.Lock()
		c.engines[modelID] = e
		c.mu.Unlock()

		slog.Info("[EngineCache] Generation engine ready",
			slog.String("model", modelID),
			slog.Duration("elapsed", time.Since(start)))
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Engine), nil
}

func (c *engineCache) models() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.engines))
	for id := range c.engines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
