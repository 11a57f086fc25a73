package dispatch

import "time"

// Config contains tunables for dispatch pass processing
type Config struct {
	// Chunked processing
	ChunkSize       int           `json:"chunk_size"`
	MaxParallelism  int           `json:"max_parallelism"`
	InterChunkPause time.Duration `json:"inter_chunk_pause"`
	MaxProcessTime  time.Duration `json:"max_process_time"`

	// Retry settings
	MaxRetries     int           `json:"max_retries"`
	RetryBaseDelay time.Duration `json:"retry_base_delay"`
	RetryMaxDelay  time.Duration `json:"retry_max_delay"`

	// Tenant rate limiting
	DefaultRateLimitPerHour int           `json:"default_rate_limit_per_hour"`
	RateCounterTTL          time.Duration `json:"rate_counter_ttl"`

	// Logging
	ProgressLogInterval time.Duration `json:"progress_log_interval"`

	// BounceDomains are domains known to hard-bounce; recipients there are
	// skipped before any send attempt
	BounceDomains []string `json:"bounce_domains"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:               25,
		MaxParallelism:          10,
		InterChunkPause:         100 * time.Millisecond,
		MaxProcessTime:          50 * time.Second,
		MaxRetries:              3,
		RetryBaseDelay:          30 * time.Second,
		RetryMaxDelay:           300 * time.Second,
		DefaultRateLimitPerHour: 1000,
		RateCounterTTL:          65 * time.Minute,
		ProgressLogInterval:     5 * time.Second,
		BounceDomains: []string{
			"example.com",
			"example.org",
			"mailinator.com",
		},
	}
}
