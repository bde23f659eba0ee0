package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// Config is read once at startup from the environment, optionally seeded
// from a .env file.
type Config struct {
	Server         ServerConfig
	WeatherAPI     WeatherAPIConfig
	Scheduler      SchedulerConfig
	Cache          CacheConfig
	CircuitBreaker CircuitBreakerConfig
	Retry          RetryConfig

	// DefaultLocale applies when a request names no usable language.
	DefaultLocale string `envconfig:"DEFAULT_LOCALE" default:"fr" validate:"oneof=fr ar en"`
}

type ServerConfig struct {
	Port         string        `envconfig:"FIBER_PORT" default:"8080" validate:"required,numeric"`
	ReadTimeout  time.Duration `envconfig:"FIBER_READ_TIMEOUT" default:"10s" validate:"gt=0"`
	WriteTimeout time.Duration `envconfig:"FIBER_WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error dpanic panic fatal"`
}

type WeatherAPIConfig struct {
	OpenWeatherAPIKey string `envconfig:"OPENWEATHER_API_KEY"`
	WeatherAPIKey     string `envconfig:"WEATHERAPI_API_KEY"`
	OpenMeteoURL      string `envconfig:"OPENMETEO_URL" default:"https://api.open-meteo.com/v1" validate:"required,url"`
	// RequestTimeout bounds one HTTP round trip to a provider.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s" validate:"gt=0"`
	// Concurrency caps simultaneous region fetches.
	Concurrency int `envconfig:"FETCH_CONCURRENCY" default:"6" validate:"min=1,max=24"`
}

type SchedulerConfig struct {
	Enabled       bool          `envconfig:"SCHEDULER_ENABLED" default:"true"`
	FetchInterval time.Duration `envconfig:"FETCH_INTERVAL" default:"15m" validate:"gte=1m"`
	// Schedule is a cron expression that overrides FetchInterval when set.
	Schedule string `envconfig:"FETCH_SCHEDULE"`
	// RefreshTimeout bounds one full refresh of every region.
	RefreshTimeout time.Duration `envconfig:"REFRESH_TIMEOUT" default:"5m" validate:"gt=0"`
}

type CacheConfig struct {
	Duration time.Duration `envconfig:"CACHE_DURATION" default:"10m" validate:"gt=0"`
	MaxSize  int           `envconfig:"MAX_CACHE_SIZE" default:"1000" validate:"min=1"`
}

type CircuitBreakerConfig struct {
	Threshold int           `envconfig:"CIRCUIT_BREAKER_THRESHOLD" default:"3" validate:"min=1"`
	Timeout   time.Duration `envconfig:"CIRCUIT_BREAKER_TIMEOUT" default:"30s" validate:"gt=0"`
}

type RetryConfig struct {
	MaxRetries int           `envconfig:"MAX_RETRIES" default:"3" validate:"min=0,max=10"`
	Delay      time.Duration `envconfig:"RETRY_DELAY" default:"1s" validate:"gte=0"`
	Multiplier float64       `envconfig:"RETRY_MULTIPLIER" default:"2" validate:"gte=1"`
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv populates and validates a Config from the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment configuration: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}
