package web

import (
	"context"
	"errors"
	"net/url"

	"github.com/a11yrank/a11yrank/internal/core/domain"
	"github.com/a11yrank/a11yrank/internal/infrastructure/resilience"
)

// ResilientFetcher wraps a Fetcher with retry/backoff and a
// per-host circuit breaker. Temporary failures are retried, terminal
// ones surface on the first attempt.
type ResilientFetcher struct {
	inner    *Fetcher
	executor *resilience.Executor
}

func NewResilientFetcher(inner *Fetcher, executor *resilience.Executor) *ResilientFetcher {
	return &ResilientFetcher{inner: inner, executor: executor}
}

func (f *ResilientFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.executor == nil {
		return f.inner.Fetch(ctx, rawURL)
	}

	var body string
	err := f.executor.Execute(ctx, "fetch:"+hostOf(rawURL), func(ctx context.Context) error {
		var err error
		body, err = f.inner.Fetch(ctx, rawURL)
		return err
	}, classifyFetchError)
	if err != nil && resilience.IsCircuitOpen(err) {
		err = domain.WrapError(domain.ErrTemporary, "fetch", err)
	}
	return body, err
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

func classifyFetchError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	// 4xx, bad content type, oversized body: retrying cannot help and
	// the host itself is healthy.
	return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
}
