package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.2"

type Config struct {
	Database    DatabaseConfig
	Security    SecurityConfig
	Worker      WorkerConfig
	Dispatch    DispatchConfig
	Environment string
	LogLevel    string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SecurityConfig struct {
	// Secret passphrase for email credential encryption
	SecretKey string
}

type WorkerConfig struct {
	WorkerCount  int
	PollInterval time.Duration
	ClaimBatch   int
	SweepBatch   int

	CircuitBreakerThreshold int
	CircuitBreakerCooldown  time.Duration
}

type DispatchConfig struct {
	ChunkSize       int
	MaxParallelism  int
	InterChunkPause time.Duration

	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	DefaultRateLimitPerHour int

	BounceDomains []string
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	// Try to load .env file but don't require it
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sendcycle")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	// Worker defaults
	v.SetDefault("WORKER_COUNT", 5)
	v.SetDefault("WORKER_POLL_INTERVAL", "1s")
	v.SetDefault("WORKER_CLAIM_BATCH", 50)
	v.SetDefault("WORKER_SWEEP_BATCH", 20)
	v.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)
	v.SetDefault("CIRCUIT_BREAKER_COOLDOWN", "1m")

	// Dispatch defaults
	v.SetDefault("DISPATCH_CHUNK_SIZE", 25)
	v.SetDefault("DISPATCH_MAX_PARALLELISM", 10)
	v.SetDefault("DISPATCH_INTER_CHUNK_PAUSE", "100ms")
	v.SetDefault("DISPATCH_MAX_RETRIES", 3)
	v.SetDefault("DISPATCH_RETRY_BASE_DELAY", "30s")
	v.SetDefault("DISPATCH_RETRY_MAX_DELAY", "300s")
	v.SetDefault("DISPATCH_DEFAULT_RATE_LIMIT_PER_HOUR", 1000)
	v.SetDefault("DISPATCH_BOUNCE_DOMAINS", "")

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	secretKey := v.GetString("SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}

	var bounceDomains []string
	for _, d := range strings.Split(v.GetString("DISPATCH_BOUNCE_DOMAINS"), ",") {
		if d = strings.TrimSpace(d); d != "" {
			bounceDomains = append(bounceDomains, strings.ToLower(d))
		}
	}

	config := &Config{
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Security: SecurityConfig{
			SecretKey: secretKey,
		},
		Worker: WorkerConfig{
			WorkerCount:             v.GetInt("WORKER_COUNT"),
			PollInterval:            v.GetDuration("WORKER_POLL_INTERVAL"),
			ClaimBatch:              v.GetInt("WORKER_CLAIM_BATCH"),
			SweepBatch:              v.GetInt("WORKER_SWEEP_BATCH"),
			CircuitBreakerThreshold: v.GetInt("CIRCUIT_BREAKER_THRESHOLD"),
			CircuitBreakerCooldown:  v.GetDuration("CIRCUIT_BREAKER_COOLDOWN"),
		},
		Dispatch: DispatchConfig{
			ChunkSize:               v.GetInt("DISPATCH_CHUNK_SIZE"),
			MaxParallelism:          v.GetInt("DISPATCH_MAX_PARALLELISM"),
			InterChunkPause:         v.GetDuration("DISPATCH_INTER_CHUNK_PAUSE"),
			MaxRetries:              v.GetInt("DISPATCH_MAX_RETRIES"),
			RetryBaseDelay:          v.GetDuration("DISPATCH_RETRY_BASE_DELAY"),
			RetryMaxDelay:           v.GetDuration("DISPATCH_RETRY_MAX_DELAY"),
			DefaultRateLimitPerHour: v.GetInt("DISPATCH_DEFAULT_RATE_LIMIT_PER_HOUR"),
			BounceDomains:           bounceDomains,
		},
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	return config, nil
}

// IsDevelopment returns true when running in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
