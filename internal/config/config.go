package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HOSPITAL_DATABASE_HOST.
const EnvPrefix = "hospital"

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Appointments AppointmentsConfig `mapstructure:"appointments"`
	Log          LogConfig          `mapstructure:"log"`
	Sentry       SentryConfig       `mapstructure:"sentry"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit" split_words:"true"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Broker       BrokerConfig       `mapstructure:"broker"`
	Outbox       OutboxConfig       `mapstructure:"outbox"`
	SMTP         SMTPConfig         `mapstructure:"smtp"`
	Worker       WorkerConfig       `mapstructure:"worker"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" split_words:"true"`
	Mode            string        `mapstructure:"mode"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory".
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode" envconfig:"SSLMODE"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" split_words:"true"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" split_words:"true"`
}

type AuthConfig struct {
	// OpenResources lets anonymous callers use the resource endpoints.
	OpenResources bool          `mapstructure:"open_resources" split_words:"true"`
	TokenCacheTTL time.Duration `mapstructure:"token_cache_ttl" envconfig:"TOKEN_CACHE_TTL"`
	BcryptCost    int           `mapstructure:"bcrypt_cost" split_words:"true"`
}

type AppointmentsConfig struct {
	StrictTransitions bool `mapstructure:"strict_transitions" split_words:"true"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" split_words:"true"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true"`
	AllowedMethods []string `mapstructure:"allowed_methods" split_words:"true"`
	AllowedHeaders []string `mapstructure:"allowed_headers" split_words:"true"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

type BrokerConfig struct {
	// Driver is "redis", "kafka" or "memory".
	Driver       string        `mapstructure:"driver"`
	RedisURL     string        `mapstructure:"redis_url" split_words:"true"`
	MaxRetries   int           `mapstructure:"max_retries" split_words:"true"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" split_words:"true"`
	PoolSize     int           `mapstructure:"pool_size" split_words:"true"`
	KafkaBrokers []string      `mapstructure:"kafka_brokers" split_words:"true"`
	KafkaGroupID string        `mapstructure:"kafka_group_id" split_words:"true"`
	TopicPrefix  string        `mapstructure:"topic_prefix" split_words:"true"`
}

type OutboxConfig struct {
	BatchSize     int           `mapstructure:"batch_size" split_words:"true"`
	PollInterval  time.Duration `mapstructure:"poll_interval" split_words:"true"`
	RetryAttempts int           `mapstructure:"retry_attempts" split_words:"true"`
	RetryDelay    time.Duration `mapstructure:"retry_delay" split_words:"true"`
	Retention     time.Duration `mapstructure:"retention"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Enabled reports whether outgoing mail is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

type WorkerConfig struct {
	MetricsPort int `mapstructure:"metrics_port" split_words:"true"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "hospital")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("auth.open_resources", true)
	v.SetDefault("auth.token_cache_ttl", 5*time.Minute)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("appointments.strict_transitions", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 20)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})

	v.SetDefault("metrics.namespace", "hospital")

	v.SetDefault("broker.driver", "redis")
	v.SetDefault("broker.redis_url", "redis://localhost:6379/0")
	v.SetDefault("broker.max_retries", 3)
	v.SetDefault("broker.retry_backoff", 100*time.Millisecond)
	v.SetDefault("broker.pool_size", 10)
	v.SetDefault("broker.kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("broker.kafka_group_id", "hospital-worker")
	v.SetDefault("broker.topic_prefix", "hospital")

	v.SetDefault("outbox.batch_size", 100)
	v.SetDefault("outbox.poll_interval", 5*time.Second)
	v.SetDefault("outbox.retry_attempts", 3)
	v.SetDefault("outbox.retry_delay", time.Second)
	v.SetDefault("outbox.retention", 7*24*time.Hour)

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "no-reply@hospital.local")

	v.SetDefault("worker.metrics_port", 8081)
}

// LoadConfig reads defaults, then config.yml if present, then a .env file if
// present, then HOSPITAL_* environment variables. Later sources win.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "/app/config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the services cannot start with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch strings.ToLower(c.Broker.Driver) {
	case "redis", "kafka", "memory":
	default:
		return fmt.Errorf("unsupported broker driver %q", c.Broker.Driver)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return c.Outbox.Validate()
}

// Validate rejects outbox settings the worker cannot poll with.
func (o OutboxConfig) Validate() error {
	if o.BatchSize <= 0 {
		return fmt.Errorf("outbox.batch_size must be greater than 0, got %d", o.BatchSize)
	}
	if o.PollInterval <= 0 {
		return fmt.Errorf("outbox.poll_interval must be greater than 0, got %s", o.PollInterval)
	}
	if o.RetryAttempts <= 0 {
		return fmt.Errorf("outbox.retry_attempts must be greater than 0, got %d", o.RetryAttempts)
	}
	if o.RetryDelay <= 0 {
		return fmt.Errorf("outbox.retry_delay must be greater than 0, got %s", o.RetryDelay)
	}
	return nil
}
