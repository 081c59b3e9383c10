package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/a11yrank/a11yrank/internal/adapters/http"
	"github.com/a11yrank/a11yrank/internal/adapters/report/xlsx"
	"github.com/a11yrank/a11yrank/internal/bootstrap"
	"github.com/a11yrank/a11yrank/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "api")
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	router := httpadapter.NewRouter(httpadapter.Deps{
		Analyser:  app.AnalyseUC,
		Refresher: app.AnalyseUC,
		Batch:     app.BatchUC,
		Reader:    app.AnalyseUC,
		Feedback:  app.FeedbackUC,
		Cache:     app.Cache,
		Queue:     app.Queue,
		Report:    xlsx.NewWriter(),
		Metrics:   app.Metrics,
		Logger:    app.Log,

		Service:       "api",
		RatePerSecond: cfg.RatePerSecond,
		RateBurst:     cfg.RateBurst,
	}).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		app.Log.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Log.Error("api_shutdown_failed", "error", err)
	}
}
