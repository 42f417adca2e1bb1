package store

import (
	"context"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"

	"github.com/i474232898/kiosk-feed/internal/board"
)

type entry struct {
	resp      board.AggregatedResponse
	expiresAt time.Time
}

// MemoryCache is a concurrency-safe in-process result cache with a fixed TTL.
type MemoryCache struct {
	mu sync.RWMutex

	data map[string]entry

	ttl   time.Duration
	clock clock.Clock
}

// NewMemoryCache creates a new MemoryCache. A nil clock means the wall clock.
func NewMemoryCache(ttl time.Duration, clk clock.Clock) *MemoryCache {
	if clk == nil {
		clk = clock.NewClock()
	}
	return &MemoryCache{
		data:  make(map[string]entry),
		ttl:   ttl,
		clock: clk,
	}
}

// Get returns the document stored under key while it has not expired.
func (c *MemoryCache) Get(_ context.Context, key string) (board.AggregatedResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || !c.clock.Now().Before(e.expiresAt) {
		return board.AggregatedResponse{}, board.ErrCacheMiss
	}
	return e.resp, nil
}

// Set stores resp under key for the cache TTL and drops expired entries.
func (c *MemoryCache) Set(_ context.Context, key string, resp board.AggregatedResponse) error {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.data {
		if !now.Before(e.expiresAt) {
			delete(c.data, k)
		}
	}

	c.data[key] = entry{resp: resp, expiresAt: now.Add(c.ttl)}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
