package dispatch

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// RetryPolicy classifies send failures and computes backoff delays
type RetryPolicy interface {
	// ShouldRetry reports whether a failed send at the given attempt number
	// (1-based) should be re-enqueued
	ShouldRetry(attempt int, err error) bool

	// NextDelay computes the jittered backoff before the next attempt
	NextDelay(attempt int) time.Duration
}

// retryablePatterns match transient transport failures worth another try
var retryablePatterns = []string{
	"timeout",
	"timed out",
	"connection refused",
	"connection reset",
	"broken pipe",
	"network",
	"temporary failure",
	"temporarily",
	"try again",
	"too many requests",
	"rate limit",
	"quota",
	"throttl",
	"421",
	"450",
	"451",
	"452",
}

// permanentPatterns match failures that will not heal with time. These take
// priority over retryable matches.
var permanentPatterns = []string{
	"authentication",
	"auth failed",
	"login",
	"credential",
	"invalid password",
	"invalid recipient",
	"invalid address",
	"no such user",
	"user unknown",
	"unknown user",
	"mailbox unavailable",
	"does not exist",
	"blocked",
	"blacklist",
	"denylist",
	"spam",
	"550",
	"553",
}

type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration

	// rand.Rand is not safe for concurrent use and NextDelay runs from
	// parallel send goroutines
	randMu sync.Mutex
	rand   *rand.Rand
}

// NewRetryPolicy creates a retry policy from the dispatch config
func NewRetryPolicy(config *Config) RetryPolicy {
	if config == nil {
		config = DefaultConfig()
	}
	return &retryPolicy{
		maxRetries: config.MaxRetries,
		baseDelay:  config.RetryBaseDelay,
		maxDelay:   config.RetryMaxDelay,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *retryPolicy) ShouldRetry(attempt int, err error) bool {
	if attempt >= p.maxRetries {
		return false
	}
	if err == nil {
		return false
	}

	text := strings.ToLower(err.Error())

	// Permanent wins even when a retryable pattern also matches
	for _, pattern := range permanentPatterns {
		if strings.Contains(text, pattern) {
			return false
		}
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}

	// Unrecognized errors default to retryable: a wasted retry beats a
	// silently dropped message
	return true
}

func (p *retryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.maxDelay {
			break
		}
	}

	// Uniform jitter in [0.75, 1.25] to spread simultaneous failures apart
	p.randMu.Lock()
	jitter := 0.75 + p.rand.Float64()*0.5
	p.randMu.Unlock()
	delay = time.Duration(float64(delay) * jitter)

	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	return delay
}
