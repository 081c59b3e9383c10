package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/a11yrank/a11yrank/internal/core/domain"
	"github.com/a11yrank/a11yrank/internal/core/ports"
)

const (
	DefaultBatchConcurrency = 4
	MaxBatchSize            = 50
)

// BatchUseCase analyses a set of URLs with bounded concurrency. One
// failed URL never aborts the batch: each input produces exactly one
// item, in input order, carrying either a result or an error.
type BatchUseCase struct {
	analyser    ports.PageAnalyser
	concurrency int
	log         *slog.Logger
}

func NewBatchUseCase(analyser ports.PageAnalyser, concurrency int, log *slog.Logger) *BatchUseCase {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	if log == nil {
		log = slog.Default()
	}
	return &BatchUseCase{analyser: analyser, concurrency: concurrency, log: log}
}

func (uc *BatchUseCase) AnalyseBatch(ctx context.Context, rawURLs []string) ([]domain.BatchItem, error) {
	if len(rawURLs) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "batch", errEmptyBatch)
	}
	if len(rawURLs) > MaxBatchSize {
		return nil, domain.WrapError(domain.ErrInvalidInput, "batch",
			errBatchTooLarge(len(rawURLs)))
	}

	items := make([]domain.BatchItem, len(rawURLs))
	sem := make(chan struct{}, uc.concurrency)
	var wg sync.WaitGroup

	for i, rawURL := range rawURLs {
		items[i].URL = rawURL
		wg.Add(1)
		go func(i int, rawURL string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				items[i].Error = ctx.Err().Error()
				return
			}

			result, err := uc.analyser.Analyse(ctx, rawURL)
			if err != nil {
				items[i].Error = err.Error()
				return
			}
			items[i].Result = result
			if result.Failed() {
				items[i].Error = FailureReason(result)
			}
		}(i, rawURL)
	}
	wg.Wait()

	uc.log.Info("batch_completed", "urls", len(rawURLs), "failed", countFailed(items))
	return items, nil
}

func countFailed(items []domain.BatchItem) int {
	failed := 0
	for _, item := range items {
		if item.Error != "" {
			failed++
		}
	}
	return failed
}
