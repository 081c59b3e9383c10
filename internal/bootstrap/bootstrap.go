package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/a11yrank/a11yrank/internal/config"
	"github.com/a11yrank/a11yrank/internal/core/ports"
	"github.com/a11yrank/a11yrank/internal/core/usecase"
	"github.com/a11yrank/a11yrank/internal/infrastructure/cache/file"
	"github.com/a11yrank/a11yrank/internal/infrastructure/cache/memory"
	"github.com/a11yrank/a11yrank/internal/infrastructure/cache/redis"
	"github.com/a11yrank/a11yrank/internal/infrastructure/feedback/ollama"
	"github.com/a11yrank/a11yrank/internal/infrastructure/fetcher/web"
	natsqueue "github.com/a11yrank/a11yrank/internal/infrastructure/queue/nats"
	"github.com/a11yrank/a11yrank/internal/infrastructure/repository/postgres"
	"github.com/a11yrank/a11yrank/internal/infrastructure/resilience"
	"github.com/a11yrank/a11yrank/internal/observability/logging"
	"github.com/a11yrank/a11yrank/internal/observability/metrics"
)

// App wires configuration, infrastructure and usecases together for
// both binaries. Optional infrastructure (postgres, nats, ollama)
// stays nil when disabled and the HTTP surface degrades gracefully.
type App struct {
	Config  config.Config
	Log     *slog.Logger
	Metrics *metrics.HTTPServerMetrics

	Cache   ports.ResultCache
	Journal ports.AnalysisJournal
	Queue   ports.MessageQueue

	AnalyseUC  *usecase.AnalyseUseCase
	BatchUC    ports.BatchAnalyser
	FeedbackUC ports.FeedbackService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	log := logging.NewJSONLogger(service, cfg.LogLevel)
	httpMetrics := metrics.NewHTTPServerMetrics(service)

	resCfg := resilience.DefaultConfig()
	if cfg.RetryMaxAttempts > 0 {
		resCfg.RetryMaxAttempts = cfg.RetryMaxAttempts
	}
	executor := resilience.NewExecutor(resCfg, log)

	fetcher := web.NewResilientFetcher(web.NewFetcher(web.Config{
		Timeout:   time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
		MaxBody:   cfg.FetchMaxBodyBytes,
		UserAgent: cfg.FetchUserAgent,
	}), executor)

	var closers []func()

	cache, closeCache, err := newCache(cfg)
	if err != nil {
		return nil, err
	}
	if closeCache != nil {
		closers = append(closers, closeCache)
	}

	var journal ports.AnalysisJournal
	if cfg.PostgresEnabled {
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := postgres.NewAnalysisJournal(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		journal = repo
		closers = append(closers, func() { _ = db.Close() })
	}

	var queue ports.MessageQueue
	if cfg.NATSEnabled {
		q, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
			ResilienceExecutor: executor,
			Logger:             log,
		})
		if err != nil {
			return nil, fmt.Errorf("init message queue: %w", err)
		}
		queue = q
		closers = append(closers, q.Close)
	}

	analyseUC := usecase.NewAnalyseUseCase(fetcher, cache, usecase.AnalyseOptions{
		Journal:  journal,
		Observer: httpMetrics.AnalysisRecorder(service),
		Logger:   log,
		CacheTTL: cfg.CacheTTL,
	})
	batchUC := usecase.NewBatchUseCase(analyseUC, cfg.BatchConcurrency, log)

	var feedbackUC ports.FeedbackService
	if cfg.FeedbackEnabled {
		generator := ollama.NewGenerator(ollama.New(cfg.OllamaURL, cfg.OllamaModel))
		feedbackUC = usecase.NewFeedbackUseCase(analyseUC, generator, log)
	}

	return &App{
		Config:  cfg,
		Log:     log,
		Metrics: httpMetrics,

		Cache:   cache,
		Journal: journal,
		Queue:   queue,

		AnalyseUC:  analyseUC,
		BatchUC:    batchUC,
		FeedbackUC: feedbackUC,

		closeFn: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

func newCache(cfg config.Config) (ports.ResultCache, func(), error) {
	switch cfg.CacheBackend {
	case "memory":
		c := memory.NewCache()
		return c, c.Close, nil
	case "file":
		c, err := file.NewCache(cfg.CachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("init file cache: %w", err)
		}
		return c, nil, nil
	case "redis":
		c, err := redis.NewCache(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("init redis cache: %w", err)
		}
		return c, func() { _ = c.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
