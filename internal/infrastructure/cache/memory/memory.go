package memory

import (
	"context"
	"sync"
	"time"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

type entry struct {
	result    *domain.AnalysisResult
	expiresAt time.Time
}

// Cache is an in-process result cache. Suitable for single-instance
// deployments and tests; entries do not survive a restart.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stopCh  chan struct{}
	once    sync.Once
}

func NewCache() *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		stopCh:  make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

func (c *Cache) Get(_ context.Context, url string) (*domain.AnalysisResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[url]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.result, true, nil
}

func (c *Cache) Put(_ context.Context, url string, result *domain.AnalysisResult, ttl time.Duration) error {
	if result == nil || result.Failed() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = entry{result: result, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *Cache) Delete(_ context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
	return nil
}

func (c *Cache) Stats(_ context.Context) (domain.CacheStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	live := 0
	now := time.Now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			live++
		}
	}
	return domain.CacheStats{Entries: live, Backend: "memory"}, nil
}

func (c *Cache) Close() {
	c.once.Do(func() { close(c.stopCh) })
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *Cache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for url, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, url)
		}
	}
}
