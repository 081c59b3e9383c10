package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a11yrank/a11yrank/internal/bootstrap"
	"github.com/a11yrank/a11yrank/internal/config"
	"github.com/a11yrank/a11yrank/internal/observability/metrics"
)

const analysisTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if !cfg.NATSEnabled {
		log.Fatalf("worker requires NATS_ENABLED=true")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "worker")
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Error("metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	app.Log.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeAnalysisRequested(ctx, func(handlerCtx context.Context, url string) error {
		analysisCtx, cancel := context.WithTimeout(handlerCtx, analysisTimeout)
		defer cancel()

		workerMetrics.StartAnalysis()
		started := time.Now()
		_, err := app.AnalyseUC.Analyse(analysisCtx, url)
		workerMetrics.FinishAnalysis("worker", time.Since(started), err)
		return err
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
