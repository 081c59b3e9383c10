package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

const keyPrefix = "a11yrank:result:"

// Cache stores results in Redis. TTL enforcement is delegated to the
// server, so there is no purge loop.
type Cache struct {
	client *redis.Client
}

func NewCache(redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &Cache{client: client}, nil
}

func key(url string) string { return keyPrefix + url }

func (c *Cache) Get(ctx context.Context, url string) (*domain.AnalysisResult, bool, error) {
	data, err := c.client.Get(ctx, key(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		// A stale encoding is treated as a miss and replaced on the
		// next Put.
		return nil, false, nil
	}
	return &result, true, nil
}

func (c *Cache) Put(ctx context.Context, url string, result *domain.AnalysisResult, ttl time.Duration) error {
	if result == nil || result.Failed() {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return c.client.Set(ctx, key(url), data, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, url string) error {
	return c.client.Del(ctx, key(url)).Err()
}

func (c *Cache) Stats(ctx context.Context) (domain.CacheStats, error) {
	stats := domain.CacheStats{Backend: "redis"}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 500).Result()
		if err != nil {
			return stats, err
		}
		stats.Entries += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return stats, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}
