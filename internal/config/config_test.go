package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("A11YRANK_CONFIG", "")
	t.Setenv("API_PORT", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("RATE_PER_SECOND", "")
	t.Setenv("BATCH_CONCURRENCY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default api port 8080, got %q", cfg.APIPort)
	}
	if cfg.CacheBackend != "file" {
		t.Fatalf("expected default cache backend file, got %q", cfg.CacheBackend)
	}
	if cfg.CacheTTL != 7*24*time.Hour {
		t.Fatalf("expected default cache ttl 168h, got %s", cfg.CacheTTL)
	}
	if cfg.RatePerSecond != 5 {
		t.Fatalf("expected default rate 5, got %v", cfg.RatePerSecond)
	}
	if cfg.BatchConcurrency != 4 {
		t.Fatalf("expected default batch concurrency 4, got %d", cfg.BatchConcurrency)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("A11YRANK_CONFIG", "")
	t.Setenv("API_PORT", "9000")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "9000" {
		t.Fatalf("expected api port override, got %q", cfg.APIPort)
	}
	if cfg.CacheBackend != "redis" {
		t.Fatalf("expected cache backend redis, got %q", cfg.CacheBackend)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Fatalf("expected cache ttl 30m, got %s", cfg.CacheTTL)
	}
	if !cfg.NATSEnabled {
		t.Fatalf("expected nats enabled")
	}
	if cfg.RetryMaxAttempts != 5 {
		t.Fatalf("expected retry attempts 5, got %d", cfg.RetryMaxAttempts)
	}
}

func TestLoadAppliesYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "api_port: \"7070\"\ncache_backend: memory\nrate_burst: 25\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("A11YRANK_CONFIG", path)
	t.Setenv("API_PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "7070" {
		t.Fatalf("expected file to win over env, got %q", cfg.APIPort)
	}
	if cfg.CacheBackend != "memory" {
		t.Fatalf("expected cache backend memory, got %q", cfg.CacheBackend)
	}
	if cfg.RateBurst != 25 {
		t.Fatalf("expected rate burst 25, got %d", cfg.RateBurst)
	}
}

func TestLoadRejectsUnreadableOverlay(t *testing.T) {
	t.Setenv("A11YRANK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
