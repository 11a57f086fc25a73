package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/pkg/cache"
	"github.com/sendcycle/sendcycle/pkg/logger"
)

// RateLimiter decides whether a tenant has sending headroom within the
// rolling hour. A denial is a recoverable capacity condition: the caller
// pauses the batch rather than failing it.
type RateLimiter interface {
	// Allow reports whether the tenant may send one more email and the count
	// it based that decision on
	Allow(ctx context.Context, tenantID string, limitPerHour int) (bool, int)

	// RecordSend bumps the fast counter after an attempt is made
	RecordSend(ctx context.Context, tenantID string)
}

type rateLimiter struct {
	counters     cache.Cache
	attempts     domain.SendAttemptRepository
	counterTTL   time.Duration
	defaultLimit int
	timeProvider TimeProvider
	logger       logger.Logger
}

// NewRateLimiter creates a tenant rate limiter. The cache holds a fast
// approximate counter per tenant and clock hour; the send-attempt sink is
// the authoritative fallback.
func NewRateLimiter(counters cache.Cache, attempts domain.SendAttemptRepository, config *Config, timeProvider TimeProvider, log logger.Logger) RateLimiter {
	if config == nil {
		config = DefaultConfig()
	}
	if timeProvider == nil {
		timeProvider = NewRealTimeProvider()
	}
	return &rateLimiter{
		counters:     counters,
		attempts:     attempts,
		counterTTL:   config.RateCounterTTL,
		defaultLimit: config.DefaultRateLimitPerHour,
		timeProvider: timeProvider,
		logger:       log,
	}
}

func (r *rateLimiter) Allow(ctx context.Context, tenantID string, limitPerHour int) (bool, int) {
	if limitPerHour <= 0 {
		limitPerHour = r.defaultLimit
	}

	key := r.counterKey(tenantID)

	if value, found := r.counters.Get(key); found {
		if count, ok := value.(int64); ok {
			return int(count) < limitPerHour, int(count)
		}
	}

	// Fast counter missing or unusable: fall back to the authoritative
	// rolling-hour count and resynchronize from it.
	since := r.timeProvider.Now().Add(-time.Hour)
	count, err := r.attempts.CountForTenantSince(ctx, tenantID, since)
	if err != nil {
		// Fail open: delivery beats perfect enforcement. The defensive
		// increment keeps repeated fallback failures from becoming an
		// unbounded free pass.
		r.logger.WithFields(map[string]interface{}{
			"tenant_id": tenantID,
			"error":     err.Error(),
		}).Warn("Rate limit fallback count failed, allowing send")
		approx := r.counters.Increment(key, 1, r.counterTTL)
		return int(approx) <= limitPerHour, int(approx)
	}

	r.counters.Set(key, int64(count), r.counterTTL)
	return count < limitPerHour, count
}

func (r *rateLimiter) RecordSend(ctx context.Context, tenantID string) {
	r.counters.Increment(r.counterKey(tenantID), 1, r.counterTTL)
}

// counterKey buckets the fast counter by tenant and clock hour. The TTL
// outlives the hour slightly so a bucket expires on its own.
func (r *rateLimiter) counterKey(tenantID string) string {
	return fmt.Sprintf("ratelimit:%s:%s", tenantID, r.timeProvider.Now().UTC().Format("2006010215"))
}
