package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

func sampleResult(url string) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		URL:          url,
		OverallScore: 92,
		Grade:        domain.GradeAAA,
		AnalysedAt:   time.Now().UTC(),
	}
}

func newTestCache(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.json")
	c, err := NewCache(path)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	return c, path
}

func TestFileCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "https://example.com", sampleResult("https://example.com"), time.Hour); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, ok, err := c.Get(ctx, "https://example.com")
	if err != nil || !ok {
		t.Fatalf("Get() = (%v, %v), want hit", ok, err)
	}
	if got.OverallScore != 92 {
		t.Fatalf("score = %.2f, want 92", got.OverallScore)
	}
}

func TestFileCacheSurvivesReload(t *testing.T) {
	c, path := newTestCache(t)
	ctx := context.Background()
	_ = c.Put(ctx, "https://example.com", sampleResult("https://example.com"), time.Hour)

	reloaded, err := NewCache(path)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if _, ok, _ := reloaded.Get(ctx, "https://example.com"); !ok {
		t.Fatalf("entry should survive a reload")
	}
}

func TestFileCachePurgesExpiredOnLoad(t *testing.T) {
	c, path := newTestCache(t)
	ctx := context.Background()
	_ = c.Put(ctx, "https://stale.example", sampleResult("https://stale.example"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	reloaded, err := NewCache(path)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	stats, _ := reloaded.Stats(ctx)
	if stats.Entries != 0 {
		t.Fatalf("expired entries should be purged on load, got %d", stats.Entries)
	}
}

func TestFileCacheToleratesCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	c, err := NewCache(path)
	if err != nil {
		t.Fatalf("corrupt store should not be fatal: %v", err)
	}
	if _, ok, _ := c.Get(context.Background(), "https://example.com"); ok {
		t.Fatalf("corrupt store should load empty")
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	_ = c.Put(ctx, "https://example.com", sampleResult("https://example.com"), time.Hour)
	if err := c.Delete(ctx, "https://example.com"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "https://example.com"); ok {
		t.Fatalf("deleted entry must not be served")
	}
}
