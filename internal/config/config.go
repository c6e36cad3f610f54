package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/provek/interview-sim/internal/pkg/retry"
)

// Storage driver names accepted in STORAGE_DRIVER.
const (
	StorageDriverFile     = "file"
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Session storage configuration
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"file"`
	StorageDir    string `env:"STORAGE_DIR" envDefault:"./data"`

	// Postgres configuration (used when STORAGE_DRIVER=postgres)
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Redis configuration (used when STORAGE_DRIVER=redis)
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// External service configurations. The rate limit is one rolling
	// window shared by every outbound service call, not a per-service cap.
	EvaluatorConnectorCfg EvaluatorConnectorConfig `envPrefix:"EVALUATOR_"`
	GeneratorConnectorCfg GeneratorConnectorConfig `envPrefix:"GENERATOR_"`
	RateLimitPerMinute    int                      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Question pool and evaluation lexicon overrides (YAML files, optional)
	QuestionPoolPath string `env:"QUESTION_POOL_PATH"`
	LexiconPath      string `env:"LEXICON_PATH"`

	// Autosave configuration
	AutosaveCfg AutosaveConfig `envPrefix:"AUTOSAVE_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

type EvaluatorConnectorConfig struct {
	HTTPClientConfig
	EvaluateEndpoint string               `env:"EVALUATE_ENDPOINT" envDefault:"/v1/evaluate"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type GeneratorConnectorConfig struct {
	HTTPClientConfig
	GenerateQuestionEndpoint string               `env:"GENERATE_QUESTION_ENDPOINT" envDefault:"/v1/questions/generate"`
	GenerateFollowUpEndpoint string               `env:"GENERATE_FOLLOWUP_ENDPOINT" envDefault:"/v1/questions/follow-up"`
	Retry                    pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"30s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// AutosaveConfig holds the persistence cadence knobs
type AutosaveConfig struct {
	Interval time.Duration `env:"INTERVAL" envDefault:"30s"`
	Debounce time.Duration `env:"DEBOUNCE" envDefault:"1s"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.StorageDriver {
	case StorageDriverFile, StorageDriverMemory:
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	case StorageDriverRedis:
		if cfg.RedisAddr == "" {
			errors = append(errors, "REDIS_ADDR is required when STORAGE_DRIVER=redis")
		}
	default:
		errors = append(errors, fmt.Sprintf("STORAGE_DRIVER must be one of file, memory, postgres, redis, got %q", cfg.StorageDriver))
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if cfg.RateLimitPerMinute < 1 || cfg.RateLimitPerMinute > 600 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_PER_MINUTE must be between 1 and 600, got %d", cfg.RateLimitPerMinute))
	}

	if cfg.AutosaveCfg.Interval < time.Second {
		errors = append(errors, fmt.Sprintf("AUTOSAVE_INTERVAL must be at least 1s, got %s", cfg.AutosaveCfg.Interval))
	}

	if cfg.AutosaveCfg.Debounce <= 0 || cfg.AutosaveCfg.Debounce > cfg.AutosaveCfg.Interval {
		errors = append(errors, fmt.Sprintf("AUTOSAVE_DEBOUNCE must be positive and not exceed AUTOSAVE_INTERVAL(%s), got %s", cfg.AutosaveCfg.Interval, cfg.AutosaveCfg.Debounce))
	}

	if !cfg.EnableMocks {
		if cfg.EvaluatorConnectorCfg.Url == "" {
			errors = append(errors, "EVALUATOR_SERVICE_URL is required when ENABLE_MOCKS=false")
		}
		if cfg.GeneratorConnectorCfg.Url == "" {
			errors = append(errors, "GENERATOR_SERVICE_URL is required when ENABLE_MOCKS=false")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
