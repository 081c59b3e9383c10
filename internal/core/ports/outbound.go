package ports

import (
	"context"
	"time"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

// PageFetcher retrieves the raw HTML of a page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ResultCache stores successful analysis results keyed by normalized
// URL. Implementations are best-effort: a cache failure must not fail
// the analysis.
type ResultCache interface {
	Get(ctx context.Context, url string) (*domain.AnalysisResult, bool, error)
	Put(ctx context.Context, url string, result *domain.AnalysisResult, ttl time.Duration) error
	Delete(ctx context.Context, url string) error
	Stats(ctx context.Context) (domain.CacheStats, error)
}

// AnalysisJournal records the lifecycle of each analysis run.
type AnalysisJournal interface {
	Create(ctx context.Context, rec *domain.AnalysisRecord) error
	UpdateStatus(ctx context.Context, id string, status domain.AnalysisStatus, errMessage string) error
	SaveResult(ctx context.Context, id string, result *domain.AnalysisResult) error
	GetLatestByURL(ctx context.Context, url string) (*domain.AnalysisRecord, error)
}

// MessageQueue publishes/consumes asynchronous analysis requests.
type MessageQueue interface {
	PublishAnalysisRequested(ctx context.Context, url string) error
	SubscribeAnalysisRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// FeedbackGenerator produces narrative remediation advice from a
// completed result.
type FeedbackGenerator interface {
	Generate(ctx context.Context, result *domain.AnalysisResult) (string, error)
}
