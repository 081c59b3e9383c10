package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/a11yrank/a11yrank/internal/core/domain"
	"github.com/a11yrank/a11yrank/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}, nil)
}

func TestResilientFetcherRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>ready</body></html>"))
	}))
	defer srv.Close()

	f := NewResilientFetcher(NewFetcher(Config{}), testExecutor())
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if body == "" {
		t.Fatalf("expected body after retries")
	}
}

func TestResilientFetcherGivesUpOnClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewResilientFetcher(NewFetcher(Config{}), testExecutor())
	_, err := f.Fetch(context.Background(), srv.URL)
	if !domain.IsKind(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("404 must not be retried, got %d attempts", got)
	}
}
