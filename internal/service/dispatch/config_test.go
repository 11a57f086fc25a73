package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 25, config.ChunkSize)
	assert.Equal(t, 10, config.MaxParallelism)
	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, 30*time.Second, config.RetryBaseDelay)
	assert.Equal(t, 300*time.Second, config.RetryMaxDelay)
	assert.Equal(t, 1000, config.DefaultRateLimitPerHour)
	assert.NotEmpty(t, config.BounceDomains)
}
