package memory

import (
	"context"
	"testing"
	"time"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

func sampleResult(url string) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		URL:          url,
		OverallScore: 85,
		Grade:        domain.GradeAA,
		AnalysedAt:   time.Now().UTC(),
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Put(ctx, "https://example.com", sampleResult("https://example.com"), time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, ok, err := c.Get(ctx, "https://example.com")
	if err != nil || !ok {
		t.Fatalf("Get() = (%v, %v), want hit", ok, err)
	}
	if got.Grade != domain.GradeAA {
		t.Fatalf("grade = %s, want AA", got.Grade)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Put(ctx, "https://example.com", sampleResult("https://example.com"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "https://example.com"); ok {
		t.Fatalf("expired entry must not be served")
	}
}

func TestCacheRefusesFailedResults(t *testing.T) {
	c := NewCache()
	defer c.Close()
	ctx := context.Background()

	failed := sampleResult("https://example.com")
	failed.Grade = domain.GradeError
	_ = c.Put(ctx, "https://example.com", failed, time.Minute)
	if _, ok, _ := c.Get(ctx, "https://example.com"); ok {
		t.Fatalf("failure descriptors must never be cached")
	}
}

func TestCacheStats(t *testing.T) {
	c := NewCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Put(ctx, "https://a.example", sampleResult("https://a.example"), time.Minute)
	_ = c.Put(ctx, "https://b.example", sampleResult("https://b.example"), time.Minute)
	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Entries != 2 || stats.Backend != "memory" {
		t.Fatalf("stats = %+v, want 2 memory entries", stats)
	}
}
