package server

import (
	"sync"
	"time"

	"github.com/mj1618/tabshuttle/internal/output"
)

// StateCache keeps the last rendered browser state for a short TTL, so that
// bursts of read-only tool calls share one snapshot.
type StateCache struct {
	mu        sync.Mutex
	state     output.StateResult
	timestamp time.Time
	valid     bool
	ttl       time.Duration
}

// NewStateCache creates a new cache. A ttl of 0 disables caching.
func NewStateCache(ttl time.Duration) *StateCache {
	return &StateCache{ttl: ttl}
}

// Get returns the cached state if within TTL, otherwise calls read.
func (c *StateCache) Get(read func() output.StateResult) output.StateResult {
	if c.ttl == 0 {
		return read()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && time.Since(c.timestamp) < c.ttl {
		return c.state
	}
	c.state = read()
	c.timestamp = time.Now()
	c.valid = true
	return c.state
}

// Invalidate drops the cached state. Every write tool calls it.
func (c *StateCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
