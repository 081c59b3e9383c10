package ports

import (
	"context"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

// PageAnalyser is the inbound contract for analysing a single page.
type PageAnalyser interface {
	Analyse(ctx context.Context, rawURL string) (*domain.AnalysisResult, error)
}

// PageRefresher forces a fresh analysis, bypassing the cache read.
// The recomputed result still replaces the cached entry.
type PageRefresher interface {
	Refresh(ctx context.Context, rawURL string) (*domain.AnalysisResult, error)
}

// BatchAnalyser analyses a set of URLs with bounded concurrency.
type BatchAnalyser interface {
	AnalyseBatch(ctx context.Context, rawURLs []string) ([]domain.BatchItem, error)
}

// ResultReader serves previously computed results without triggering
// a fresh analysis.
type ResultReader interface {
	GetResult(ctx context.Context, rawURL string) (*domain.AnalysisResult, error)
}

// FeedbackService turns an analysis result into narrative remediation
// advice.
type FeedbackService interface {
	Feedback(ctx context.Context, rawURL string) (string, error)
}
