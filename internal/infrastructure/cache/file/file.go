package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

type entry struct {
	Result    *domain.AnalysisResult `json:"result"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// Cache persists results as one JSON document on disk. Expired entries
// are purged when the file is loaded and on every write. Writes go
// through a temp file and rename so a crash mid-write never corrupts
// the store.
type Cache struct {
	path string

	mu      sync.Mutex
	entries map[string]entry
}

func NewCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]entry)}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cache load: %w", err)
	}
	entries := make(map[string]entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt store is discarded, not fatal. The next write
		// replaces it.
		return nil
	}
	now := time.Now()
	for url, e := range entries {
		if e.Result != nil && now.Before(e.ExpiresAt) {
			c.entries[url] = e
		}
	}
	return nil
}

func (c *Cache) Get(_ context.Context, url string) (*domain.AnalysisResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if !ok || time.Now().After(e.ExpiresAt) {
		return nil, false, nil
	}
	return e.Result, true, nil
}

func (c *Cache) Put(_ context.Context, url string, result *domain.AnalysisResult, ttl time.Duration) error {
	if result == nil || result.Failed() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked()
	c.entries[url] = entry{Result: result, ExpiresAt: time.Now().Add(ttl)}
	return c.persistLocked()
}

func (c *Cache) Delete(_ context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[url]; !ok {
		return nil
	}
	delete(c.entries, url)
	return c.persistLocked()
}

func (c *Cache) Stats(_ context.Context) (domain.CacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := domain.CacheStats{Backend: "file"}
	now := time.Now()
	for _, e := range c.entries {
		if now.Before(e.ExpiresAt) {
			stats.Entries++
		}
	}
	if info, err := os.Stat(c.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	return stats, nil
}

func (c *Cache) purgeLocked() {
	now := time.Now()
	for url, e := range c.entries {
		if now.After(e.ExpiresAt) {
			delete(c.entries, url)
		}
	}
}

func (c *Cache) persistLocked() error {
	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cache-*")
	if err != nil {
		return fmt.Errorf("cache temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cache write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache close: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache replace: %w", err)
	}
	return nil
}
