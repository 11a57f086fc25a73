package queue

import (
	"sync"
	"time"
)

// CircuitBreakerConfig holds configuration for circuit breakers
type CircuitBreakerConfig struct {
	// Threshold is the number of infrastructure failures before opening
	Threshold int

	// CooldownPeriod is how long the circuit stays open before auto-reset
	CooldownPeriod time.Duration
}

// DefaultCircuitBreakerConfig returns sensible defaults
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Threshold:      5,
		CooldownPeriod: time.Minute,
	}
}

// CircuitBreaker tracks consecutive failures for a single tenant
type CircuitBreaker struct {
	failures       int
	threshold      int
	cooldownPeriod time.Duration
	lastFailure    time.Time
	lastError      error
	isOpen         bool
	mutex          sync.RWMutex
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration
func NewCircuitBreaker(threshold int, cooldownPeriod time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		threshold:      threshold,
		cooldownPeriod: cooldownPeriod,
	}
}

// IsOpen checks whether the circuit is open. An open circuit whose cooldown
// has elapsed resets itself on the way through.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mutex.RLock()
	open := cb.isOpen
	expired := open && time.Since(cb.lastFailure) > cb.cooldownPeriod
	cb.mutex.RUnlock()

	if !open {
		return false
	}
	if expired {
		cb.mutex.Lock()
		if cb.isOpen && time.Since(cb.lastFailure) > cb.cooldownPeriod {
			cb.isOpen = false
			cb.failures = 0
			cb.lastError = nil
		}
		open = cb.isOpen
		cb.mutex.Unlock()
	}
	return open
}

// RecordSuccess resets the circuit breaker
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.failures = 0
	cb.lastError = nil
	cb.isOpen = false
}

// RecordFailure counts one failure and opens the circuit at the threshold
func (cb *CircuitBreaker) RecordFailure(err error) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.failures++
	cb.lastFailure = time.Now()
	cb.lastError = err

	if cb.failures >= cb.threshold {
		cb.isOpen = true
	}
}

// GetLastError returns the last error that caused a failure
func (cb *CircuitBreaker) GetLastError() error {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	return cb.lastError
}

// GetFailures returns the current failure count
func (cb *CircuitBreaker) GetFailures() int {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	return cb.failures
}

// TenantCircuitBreaker manages one circuit breaker per tenant. Only
// infrastructure-class failures count toward tripping; recipient-level
// failures never open a tenant's circuit.
type TenantCircuitBreaker struct {
	breakers sync.Map // map[tenantID]*CircuitBreaker
	config   CircuitBreakerConfig
}

// NewTenantCircuitBreaker creates a per-tenant circuit breaker manager
func NewTenantCircuitBreaker(config CircuitBreakerConfig) *TenantCircuitBreaker {
	if config.Threshold == 0 {
		config.Threshold = 5
	}
	if config.CooldownPeriod == 0 {
		config.CooldownPeriod = time.Minute
	}
	return &TenantCircuitBreaker{
		config: config,
	}
}

func (tcb *TenantCircuitBreaker) getOrCreateBreaker(tenantID string) *CircuitBreaker {
	if cb, ok := tcb.breakers.Load(tenantID); ok {
		return cb.(*CircuitBreaker)
	}
	newCB := NewCircuitBreaker(tcb.config.Threshold, tcb.config.CooldownPeriod)
	actual, _ := tcb.breakers.LoadOrStore(tenantID, newCB)
	return actual.(*CircuitBreaker)
}

// IsOpen checks whether the circuit for a tenant is open
func (tcb *TenantCircuitBreaker) IsOpen(tenantID string) bool {
	if cb, ok := tcb.breakers.Load(tenantID); ok {
		return cb.(*CircuitBreaker).IsOpen()
	}
	return false
}

// RecordSuccess resets a tenant's circuit
func (tcb *TenantCircuitBreaker) RecordSuccess(tenantID string) {
	tcb.getOrCreateBreaker(tenantID).RecordSuccess()
}

// RecordFailure records a failure when it is infrastructure-class.
// Returns true if the failure was counted.
func (tcb *TenantCircuitBreaker) RecordFailure(tenantID string, err error, infrastructure bool) bool {
	if err == nil || !infrastructure {
		return false
	}
	tcb.getOrCreateBreaker(tenantID).RecordFailure(err)
	return true
}

// GetLastError returns the last counted error for a tenant
func (tcb *TenantCircuitBreaker) GetLastError(tenantID string) error {
	if cb, ok := tcb.breakers.Load(tenantID); ok {
		return cb.(*CircuitBreaker).GetLastError()
	}
	return nil
}

// GetConfig returns the circuit breaker configuration
func (tcb *TenantCircuitBreaker) GetConfig() CircuitBreakerConfig {
	return tcb.config
}

// CircuitBreakerStats contains statistics for one tenant's breaker
type CircuitBreakerStats struct {
	IsOpen       bool          `json:"is_open"`
	Failures     int           `json:"failures"`
	Threshold    int           `json:"threshold"`
	LastFailure  time.Time     `json:"last_failure,omitempty"`
	CooldownLeft time.Duration `json:"cooldown_left,omitempty"`
}

// GetStats returns statistics for all tenant breakers
func (tcb *TenantCircuitBreaker) GetStats() map[string]CircuitBreakerStats {
	stats := make(map[string]CircuitBreakerStats)
	tcb.breakers.Range(func(key, value interface{}) bool {
		tenantID := key.(string)
		cb := value.(*CircuitBreaker)

		cb.mutex.RLock()
		stat := CircuitBreakerStats{
			IsOpen:    cb.isOpen,
			Failures:  cb.failures,
			Threshold: cb.threshold,
		}
		if !cb.lastFailure.IsZero() {
			stat.LastFailure = cb.lastFailure
			if cb.isOpen {
				cooldownLeft := cb.cooldownPeriod - time.Since(cb.lastFailure)
				if cooldownLeft > 0 {
					stat.CooldownLeft = cooldownLeft
				}
			}
		}
		cb.mutex.RUnlock()

		stats[tenantID] = stat
		return true
	})
	return stats
}

// Clear removes all circuit breakers
func (tcb *TenantCircuitBreaker) Clear() {
	tcb.breakers.Range(func(key, value interface{}) bool {
		tcb.breakers.Delete(key)
		return true
	})
}
