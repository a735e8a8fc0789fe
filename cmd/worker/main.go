package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/app"
	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/email"
	"github.com/jwalitptl/hospital-api/internal/handler/health"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/worker"
)

var version = "dev"

const cleanupInterval = time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	l := app.Logger(cfg.Log, "worker")

	flush, err := app.Sentry(cfg.Sentry, version)
	if err != nil {
		l.Fatal(err, "failed to initialize sentry")
	}
	defer flush()

	if cfg.Database.Driver == "memory" {
		l.Warn("memory store is not shared with the api process; only locally written events will be relayed")
	}
	store, closeStore, err := app.Store(cfg.Database)
	if err != nil {
		l.Fatal(err, "failed to open store", "driver", cfg.Database.Driver)
	}
	defer closeStore()

	broker, err := app.Broker(cfg.Broker, l.Zerolog())
	if err != nil {
		l.Fatal(err, "failed to create broker", "driver", cfg.Broker.Driver)
	}
	defer broker.Close()

	m := metrics.New(cfg.Metrics.Namespace)

	processor := worker.NewOutboxProcessor(
		store.Outbox,
		broker,
		email.NewService(cfg.SMTP),
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
			TopicPrefix:   cfg.Broker.TopicPrefix,
		},
		l,
		m,
	)
	cleaner := worker.NewOutboxCleanupWorker(store.Outbox, cfg.Outbox.Retention, cleanupInterval, l, m)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	srv := setupHealthCheck(cfg.Worker.MetricsPort, store.Health, m, l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		l.Info("shutting down...")
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		cleaner.Start(ctx)
	}()
	wg.Wait()

	shutdownCtx, done := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error(err, "health server forced to shutdown")
	}
}

// setupHealthCheck serves liveness, readiness and metrics for the worker.
func setupHealthCheck(port int, pinger repository.Pinger, m *metrics.Metrics, l *logger.Logger) *http.Server {
	engine := gin.New()
	engine.Use(middleware.Recovery())
	health.NewHandler(pinger).RegisterRoutes(engine)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error(err, "health check server failed")
			os.Exit(1)
		}
	}()
	return srv
}
