// Package reliability protects delegation calls from repeatedly hammering a
// failing agent. There is deliberately no retry logic here: a failed
// delegation is reported upward, never re-issued.
package reliability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cognitive-core/agent-gateway/internal/logger"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	// StateClosed - circuit is closed, requests are allowed
	StateClosed CircuitState = iota
	// StateOpen - circuit is open, requests are rejected
	StateOpen
	// StateHalfOpen - circuit is testing if the agent has recovered
	StateHalfOpen
)

// String returns the string representation of the circuit state
func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreakerConfig defines configuration for circuit breaker behavior
type CircuitBreakerConfig struct {
	Name         string
	MaxFailures  int
	ResetTimeout time.Duration
}

// DefaultCircuitBreakerConfig returns a sensible default configuration
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxFailures:  5,
		ResetTimeout: 30 * time.Second,
	}
}

// CircuitBreaker implements the circuit breaker pattern
type CircuitBreaker struct {
	config        CircuitBreakerConfig
	state         CircuitState
	failureCount  int
	nextRetryTime time.Time
	mutex         sync.Mutex
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs an operation through the circuit breaker
func (cb *CircuitBreaker) Execute(ctx context.Context, operation func() error) error {
	if err := cb.beforeCall(ctx); err != nil {
		return err
	}

	err := operation()
	cb.afterCall(ctx, err)
	return err
}

// State returns the current circuit state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) beforeCall(ctx context.Context) error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case StateClosed, StateHalfOpen:
		return nil

	case StateOpen:
		if time.Now().After(cb.nextRetryTime) {
			cb.state = StateHalfOpen
			logger.InfoCtx(ctx, "Circuit breaker transitioning to half-open",
				"circuit_name", cb.config.Name,
				"failure_count", cb.failureCount)
			return nil
		}
		logger.WarnCtx(ctx, "Circuit breaker rejecting call - circuit is open",
			"circuit_name", cb.config.Name,
			"failure_count", cb.failureCount,
			"next_retry", cb.nextRetryTime.Format(time.RFC3339))
		return fmt.Errorf("circuit breaker %s is open", cb.config.Name)

	default:
		return fmt.Errorf("circuit breaker %s in unknown state", cb.config.Name)
	}
}

func (cb *CircuitBreaker) afterCall(ctx context.Context, err error) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if err != nil {
		cb.onFailure(ctx, err)
	} else {
		cb.onSuccess(ctx)
	}
}

func (cb *CircuitBreaker) onFailure(ctx context.Context, err error) {
	cb.failureCount++

	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.config.MaxFailures {
			cb.openCircuit(ctx)
		}
	case StateHalfOpen:
		cb.openCircuit(ctx)
		logger.WarnCtx(ctx, "Circuit breaker reopening due to failure in half-open state",
			"circuit_name", cb.config.Name,
			"error", err)
	}
}

func (cb *CircuitBreaker) onSuccess(ctx context.Context) {
	switch cb.state {
	case StateHalfOpen:
		cb.state = StateClosed
		cb.failureCount = 0
		logger.InfoCtx(ctx, "Circuit breaker closed after recovery",
			"circuit_name", cb.config.Name)
	case StateClosed:
		cb.failureCount = 0
	}
}

func (cb *CircuitBreaker) openCircuit(ctx context.Context) {
	cb.state = StateOpen
	cb.nextRetryTime = time.Now().Add(cb.config.ResetTimeout)
	logger.WarnCtx(ctx, "Circuit breaker opened",
		"circuit_name", cb.config.Name,
		"failure_count", cb.failureCount,
		"reset_timeout", cb.config.ResetTimeout.String())
}
