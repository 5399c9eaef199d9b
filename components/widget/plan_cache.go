package widget

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// RenderCache memoizes rendered preview HTML so repeated fetches are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// PlanCache is an in-memory TTL cache for rendered preview pages.
type PlanCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedPlan
}

type cachedPlan struct {
	html    string
	expires time.Time
}

// NewPlanCache builds a cache with the provided TTL.
func NewPlanCache(ttl time.Duration) *PlanCache {
	return &PlanCache{
		ttl:     ttl,
		entries: make(map[string]cachedPlan),
	}
}

// GetOrRender returns a cached entry or renders/stores a new one.
func (c *PlanCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

func (c *PlanCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return "", false
	}
	return entry.html, true
}

func (c *PlanCache) set(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedPlan{
		html:    html,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// settingsHash returns a deterministic hash for a settings payload so cache
// keys change whenever a shop's display settings do.
func settingsHash(settings DisplaySettings) string {
	b, err := json.Marshal(settings)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
