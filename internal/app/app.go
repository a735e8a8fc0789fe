// Package app holds the start-up wiring shared by the api and worker binaries.
package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/messaging/kafka"
	memorybroker "github.com/jwalitptl/hospital-api/pkg/messaging/memory"
	"github.com/jwalitptl/hospital-api/pkg/messaging/redis"
)

// Logger installs the global logger described by cfg.
func Logger(cfg config.LogConfig, service string) *logger.Logger {
	l := logger.Setup(&logger.Config{
		Level:  logger.ParseLevel(cfg.Level),
		Format: cfg.Format,
		Output: os.Stdout,
	})
	return l.WithFields(map[string]interface{}{"service": service})
}

// Sentry initialises error reporting. It is a no-op without a DSN; the
// returned func flushes buffered events.
func Sentry(cfg config.SentryConfig, release string) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		TracesSampleRate: cfg.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry initialization failed: %w", err)
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// Store opens the configured storage driver. The returned func releases it.
func Store(cfg config.DatabaseConfig) (*repository.Store, func() error, error) {
	switch strings.ToLower(cfg.Driver) {
	case "memory":
		return memory.NewStore(), func() error { return nil }, nil
	case "postgres", "":
		db, err := postgres.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStore(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Broker connects to the configured message broker.
func Broker(cfg config.BrokerConfig, log *zerolog.Logger) (messaging.Broker, error) {
	switch strings.ToLower(cfg.Driver) {
	case "memory":
		return memorybroker.NewBroker(), nil
	case "kafka":
		return kafka.NewKafkaBroker(kafka.Config{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
		}, log)
	case "redis", "":
		return redis.NewRedisBroker(redis.Config{
			URL:          cfg.RedisURL,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
			PoolSize:     cfg.PoolSize,
		}, log)
	}
	return nil, fmt.Errorf("unsupported broker driver %q", cfg.Driver)
}
