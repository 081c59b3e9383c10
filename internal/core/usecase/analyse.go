package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/a11yrank/a11yrank/internal/core/domain"
	"github.com/a11yrank/a11yrank/internal/core/ports"
	"github.com/a11yrank/a11yrank/internal/core/wcag"
)

// AnalysisObserver receives scoring outcomes for instrumentation.
type AnalysisObserver interface {
	ObserveAnalysis(grade domain.Grade, duration time.Duration, cacheHit bool)
}

// ScoreObserver is an optional extension for observers that also track
// the overall score distribution of freshly computed results.
type ScoreObserver interface {
	ObserveScore(score float64)
}

// AnalyseUseCase runs the full pipeline for one URL: normalize, cache
// lookup, fetch, evaluate the four principles, aggregate, cache.
// Concurrent requests for the same normalized URL share one in-flight
// evaluation. Terminal pipeline failures (dead host, unparseable
// markup) are expressed as an Error-grade result, not a Go error: the
// caller decides how to surface them. Only invalid input returns an
// error.
type AnalyseUseCase struct {
	fetcher  ports.PageFetcher
	cache    ports.ResultCache
	journal  ports.AnalysisJournal
	observer AnalysisObserver
	log      *slog.Logger
	ttl      time.Duration
	deadline time.Duration
	now      func() time.Time

	flight singleflight.Group
}

type AnalyseOptions struct {
	Journal  ports.AnalysisJournal
	Observer AnalysisObserver
	Logger   *slog.Logger
	CacheTTL time.Duration
	Deadline time.Duration
	Now      func() time.Time
}

const (
	DefaultCacheTTL = 7 * 24 * time.Hour

	// DefaultAnalysisDeadline bounds one URL end to end. Fetch retries
	// carry their own per-attempt timeouts; this cap keeps them from
	// compounding into unbounded latency.
	DefaultAnalysisDeadline = 2 * time.Minute
)

func NewAnalyseUseCase(fetcher ports.PageFetcher, cache ports.ResultCache, opts AnalyseOptions) *AnalyseUseCase {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = DefaultAnalysisDeadline
	}
	return &AnalyseUseCase{
		fetcher:  fetcher,
		cache:    cache,
		journal:  opts.Journal,
		observer: opts.Observer,
		log:      log,
		ttl:      ttl,
		deadline: deadline,
		now:      now,
	}
}

func (uc *AnalyseUseCase) Analyse(ctx context.Context, rawURL string) (*domain.AnalysisResult, error) {
	return uc.run(ctx, rawURL, false)
}

// Refresh recomputes the page even when a cached result exists. The
// fresh result replaces the cached entry.
func (uc *AnalyseUseCase) Refresh(ctx context.Context, rawURL string) (*domain.AnalysisResult, error) {
	return uc.run(ctx, rawURL, true)
}

func (uc *AnalyseUseCase) run(ctx context.Context, rawURL string, force bool) (*domain.AnalysisResult, error) {
	normalized, err := domain.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	v, err, shared := uc.flight.Do(normalized, func() (any, error) {
		return uc.analyse(ctx, normalized, force)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		uc.log.Debug("analysis_shared_in_flight", "url", normalized)
	}
	return v.(*domain.AnalysisResult), nil
}

// GetResult serves a cached result without triggering an analysis.
func (uc *AnalyseUseCase) GetResult(ctx context.Context, rawURL string) (*domain.AnalysisResult, error) {
	normalized, err := domain.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	cached, ok, err := uc.cache.Get(ctx, normalized)
	if err != nil {
		uc.log.Warn("cache_get_failed", "url", normalized, "error", err)
	}
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get result", fmt.Errorf("no cached analysis for %s", normalized))
	}
	return cached, nil
}

func (uc *AnalyseUseCase) analyse(ctx context.Context, url string, force bool) (*domain.AnalysisResult, error) {
	started := uc.now()

	ctx, cancel := context.WithTimeout(ctx, uc.deadline)
	defer cancel()

	if !force {
		cached, ok, err := uc.cache.Get(ctx, url)
		if err != nil {
			uc.log.Warn("cache_get_failed", "url", url, "error", err)
		}
		if ok {
			uc.log.Info("analysis_cache_hit", "url", url, "grade", cached.Grade)
			uc.observe(cached.Grade, 0, true)
			return cached, nil
		}
	}

	recordID := uc.journalCreate(ctx, url)

	uc.journalStatus(ctx, recordID, domain.StatusFetching, "")
	markup, err := uc.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			uc.journalStatus(ctx, recordID, domain.StatusFailed, ctxErr.Error())
			return nil, ctxErr
		}
		return uc.fail(ctx, recordID, url, fmt.Sprintf("fetch failed: %v", err), started)
	}

	uc.journalStatus(ctx, recordID, domain.StatusEvaluating, "")
	doc, err := wcag.Parse(markup)
	if err != nil {
		return uc.fail(ctx, recordID, url, fmt.Sprintf("parse failed: %v", err), started)
	}

	scores := uc.evaluate(doc, url)

	uc.journalStatus(ctx, recordID, domain.StatusAggregating, "")
	result := wcag.BuildResult(url, scores, started, uc.now().Sub(started))

	if err := uc.cache.Put(ctx, url, result, uc.ttl); err != nil {
		uc.log.Warn("cache_put_failed", "url", url, "error", err)
	}
	uc.journalResult(ctx, recordID, result)

	uc.log.Info("analysis_completed",
		"url", url,
		"score", result.OverallScore,
		"grade", result.Grade,
		"issues", len(result.Issues),
		"duration_ms", uc.now().Sub(started).Milliseconds(),
	)
	uc.observe(result.Grade, uc.now().Sub(started), false)
	if scorer, ok := uc.observer.(ScoreObserver); ok {
		scorer.ObserveScore(result.OverallScore)
	}
	return result, nil
}

// evaluate runs the four principle evaluators concurrently. A panic in
// one evaluator zeroes that principle only; the other three still
// score.
func (uc *AnalyseUseCase) evaluate(doc *wcag.Document, url string) map[domain.Principle]domain.PrincipleScore {
	type outcome struct {
		principle domain.Principle
		score     domain.PrincipleScore
	}

	evaluators := wcag.Evaluators()
	results := make(chan outcome, len(evaluators))
	for _, e := range evaluators {
		go func(e wcag.Evaluator) {
			defer func() {
				if r := recover(); r != nil {
					uc.log.Error("evaluator_panicked",
						"principle", e.Principle(), "url", url, "panic", r)
					results <- outcome{
						principle: e.Principle(),
						score:     wcag.ZeroScore(e.Principle(), fmt.Sprintf("evaluator panic: %v", r)),
					}
				}
			}()
			results <- outcome{principle: e.Principle(), score: e.Evaluate(doc)}
		}(e)
	}

	scores := make(map[domain.Principle]domain.PrincipleScore, len(evaluators))
	for range evaluators {
		o := <-results
		scores[o.principle] = o.score
	}
	return scores
}

func (uc *AnalyseUseCase) fail(ctx context.Context, recordID, url, reason string, started time.Time) (*domain.AnalysisResult, error) {
	uc.log.Warn("analysis_failed", "url", url, "reason", reason)
	result := wcag.FailureResult(url, reason, started)
	uc.journalStatus(ctx, recordID, domain.StatusFailed, reason)
	uc.journalResult(ctx, recordID, result)
	uc.observe(domain.GradeError, uc.now().Sub(started), false)
	return result, nil
}

func (uc *AnalyseUseCase) observe(grade domain.Grade, duration time.Duration, cacheHit bool) {
	if uc.observer != nil {
		uc.observer.ObserveAnalysis(grade, duration, cacheHit)
	}
}

// Journal writes are best-effort bookkeeping: a journal outage must not
// take analysis down with it.
func (uc *AnalyseUseCase) journalCreate(ctx context.Context, url string) string {
	if uc.journal == nil {
		return ""
	}
	now := uc.now().UTC()
	rec := &domain.AnalysisRecord{
		ID:        uuid.NewString(),
		URL:       url,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.journal.Create(ctx, rec); err != nil {
		uc.log.Warn("journal_create_failed", "url", url, "error", err)
		return ""
	}
	return rec.ID
}

func (uc *AnalyseUseCase) journalStatus(ctx context.Context, id string, status domain.AnalysisStatus, errMessage string) {
	if uc.journal == nil || id == "" {
		return
	}
	if err := uc.journal.UpdateStatus(ctx, id, status, errMessage); err != nil {
		uc.log.Warn("journal_update_failed", "id", id, "status", status, "error", err)
	}
}

func (uc *AnalyseUseCase) journalResult(ctx context.Context, id string, result *domain.AnalysisResult) {
	if uc.journal == nil || id == "" {
		return
	}
	if err := uc.journal.SaveResult(ctx, id, result); err != nil {
		uc.log.Warn("journal_save_failed", "id", id, "error", err)
	}
}

// FailureReason extracts the human-readable cause from an Error-grade
// result.
func FailureReason(result *domain.AnalysisResult) string {
	if result == nil || !result.Failed() {
		return ""
	}
	for _, issue := range result.Issues {
		if issue.Detail != "" {
			return issue.Detail
		}
	}
	return "analysis failed"
}
