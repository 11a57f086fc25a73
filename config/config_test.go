package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Environment: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg = &Config{Environment: "production"}
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}

func TestLoadWithOptions(t *testing.T) {
	os.Setenv("SECRET_KEY", "test-key")
	os.Setenv("DB_HOST", "testhost")
	os.Setenv("DB_USER", "testuser")
	os.Setenv("DB_NAME", "test_system")
	os.Setenv("ENVIRONMENT", "development")
	os.Setenv("WORKER_COUNT", "3")
	os.Setenv("DISPATCH_CHUNK_SIZE", "10")
	os.Setenv("DISPATCH_BOUNCE_DOMAINS", "Mailinator.com, example.org")

	defer func() {
		os.Unsetenv("SECRET_KEY")
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_USER")
		os.Unsetenv("DB_NAME")
		os.Unsetenv("ENVIRONMENT")
		os.Unsetenv("WORKER_COUNT")
		os.Unsetenv("DISPATCH_CHUNK_SIZE")
		os.Unsetenv("DISPATCH_BOUNCE_DOMAINS")
	}()

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "testhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "testuser", cfg.Database.User)
	assert.Equal(t, "test_system", cfg.Database.DBName)
	assert.Equal(t, "test-key", cfg.Security.SecretKey)
	assert.Equal(t, "development", cfg.Environment)

	assert.Equal(t, 3, cfg.Worker.WorkerCount)
	assert.Equal(t, time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, 50, cfg.Worker.ClaimBatch)
	assert.Equal(t, 5, cfg.Worker.CircuitBreakerThreshold)
	assert.Equal(t, time.Minute, cfg.Worker.CircuitBreakerCooldown)

	assert.Equal(t, 10, cfg.Dispatch.ChunkSize)
	assert.Equal(t, 10, cfg.Dispatch.MaxParallelism)
	assert.Equal(t, 100*time.Millisecond, cfg.Dispatch.InterChunkPause)
	assert.Equal(t, 3, cfg.Dispatch.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Dispatch.RetryBaseDelay)
	assert.Equal(t, 300*time.Second, cfg.Dispatch.RetryMaxDelay)
	assert.Equal(t, 1000, cfg.Dispatch.DefaultRateLimitPerHour)
	assert.Equal(t, []string{"mailinator.com", "example.org"}, cfg.Dispatch.BounceDomains)
}

func TestLoadRequiresSecretKey(t *testing.T) {
	os.Unsetenv("SECRET_KEY")

	cfg, err := LoadWithOptions(LoadOptions{})
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
}
