package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func testConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}
}

func TestExecuteRetriesTransientFailure(t *testing.T) {
	exec := NewExecutor(testConfig(), nil)

	attempts := 0
	errTransient := errors.New("connection reset")
	err := exec.Execute(context.Background(), "fetch", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTransient
		}
		return nil
	}, func(err error) ErrorClassification {
		return ErrorClassification{Retryable: errors.Is(err, errTransient), RecordFailure: true}
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(testConfig(), nil)

	attempts := 0
	errPermanent := errors.New("404 not found")
	err := exec.Execute(context.Background(), "fetch", func(context.Context) error {
		attempts++
		return errPermanent
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: false}
	})
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	exec := NewExecutor(testConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	errTransient := errors.New("timeout")
	attempts := 0
	err := exec.Execute(ctx, "fetch", func(context.Context) error {
		attempts++
		cancel()
		return errTransient
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	})
	if !errors.Is(err, errTransient) {
		t.Fatalf("expected last attempt error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected cancellation to stop retries, got %d attempts", attempts)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	cfg := testConfig()
	cfg.RetryMaxAttempts = 1
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = 50 * time.Millisecond
	cfg.BreakerHalfOpenMaxCalls = 1
	exec := NewExecutor(cfg, nil)

	errDown := errors.New("host down")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "fetch", func(context.Context) error {
			return errDown
		}, classifier)
		if !errors.Is(err, errDown) {
			t.Fatalf("expected fetch error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "fetch", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	}, classifier)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if !IsCircuitOpen(err) {
		t.Fatalf("IsCircuitOpen should report true for %v", err)
	}
}

func TestBreakersAreIsolatedPerOperation(t *testing.T) {
	cfg := testConfig()
	cfg.RetryMaxAttempts = 1
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	cfg.BreakerHalfOpenMaxCalls = 1
	exec := NewExecutor(cfg, nil)

	errDown := errors.New("host down")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}

	for i := 0; i < 2; i++ {
		_ = exec.Execute(context.Background(), "fetch:bad.example", func(context.Context) error {
			return errDown
		}, classifier)
	}

	err := exec.Execute(context.Background(), "fetch:good.example", func(context.Context) error {
		return nil
	}, classifier)
	if err != nil {
		t.Fatalf("healthy operation should not share the tripped breaker: %v", err)
	}
}
