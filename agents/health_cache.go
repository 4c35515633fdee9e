package agents

import (
	"sync"
	"time"
)

// DefaultHealthCacheTTL is the default TTL for analyst probes
const DefaultHealthCacheTTL = 60 * time.Second

// HealthStatus is the outcome of one availability probe
type HealthStatus struct {
	Available bool      `json:"available"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error,omitempty"`
}

// HealthCache keeps the last probe result for a TTL so that health checks do
// not spend an LLM call on every request.
type HealthCache struct {
	mu     sync.RWMutex
	status HealthStatus
	ttl    time.Duration
	now    func() time.Time
}

// NewHealthCache creates a new HealthCache. A TTL of 0 disables caching.
func NewHealthCache(ttl time.Duration) *HealthCache {
	return &HealthCache{
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached status and whether it is still within the TTL
func (c *HealthCache) Get() (status HealthStatus, valid bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	valid = !c.status.CheckedAt.IsZero() && c.now().Sub(c.status.CheckedAt) < c.ttl
	return c.status, valid
}

// Set records a probe result
func (c *HealthCache) Set(err error) HealthStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = HealthStatus{
		Available: err == nil,
		CheckedAt: c.now(),
	}
	if err != nil {
		c.status.Error = err.Error()
	}
	return c.status
}

// Invalidate clears the cache, forcing the next check to make a live call
func (c *HealthCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = HealthStatus{}
}

// TTL returns the cache's time-to-live duration
func (c *HealthCache) TTL() time.Duration {
	return c.ttl
}
