package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"stock-dashboard/observability"
)

// ErrServiceUnavailable is returned while a provider's breaker rejects calls.
var ErrServiceUnavailable = errors.New("service unavailable")

// CircuitBreakerConfig holds configuration for a circuit breaker
type CircuitBreakerConfig struct {
	MaxRequests uint32        // max requests allowed in half-open state
	Interval    time.Duration // cyclic period of the closed state to clear counts
	Timeout     time.Duration // period of the open state before transitioning to half-open
	MinRequests uint32        // requests needed in an interval before the breaker may trip
}

// DefaultCircuitBreakerConfig trips after half of at least five calls fail.
// Grounded analysis calls are slow, so the open period is a full minute.
var DefaultCircuitBreakerConfig = CircuitBreakerConfig{
	MaxRequests: 2,
	Interval:    2 * time.Minute,
	Timeout:     1 * time.Minute,
	MinRequests: 5,
}

// CircuitBreakerRegistry manages one circuit breaker per analysis provider
type CircuitBreakerRegistry struct {
	mu       sync.RWMutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
	config   CircuitBreakerConfig
}

// NewCircuitBreakerRegistry creates a new registry with the given config
func NewCircuitBreakerRegistry(config CircuitBreakerConfig) *CircuitBreakerRegistry {
	if config.MinRequests == 0 {
		config.MinRequests = DefaultCircuitBreakerConfig.MinRequests
	}
	return &CircuitBreakerRegistry{
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
		config:   config,
	}
}

// GetBreaker returns (or creates) the circuit breaker for a provider
func (r *CircuitBreakerRegistry) GetBreaker(name string) *gobreaker.CircuitBreaker[any] {
	r.mu.RLock()
	cb, exists := r.breakers[name]
	r.mu.RUnlock()

	if exists {
		return cb
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, exists = r.breakers[name]; exists {
		return cb
	}

	minRequests := r.config.MinRequests
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: r.config.MaxRequests,
		Interval:    r.config.Interval,
		Timeout:     r.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && failureRatio >= 0.5
		},
		IsSuccessful: func(err error) bool {
			// A superseded search cancels its fetch; that says nothing about the provider.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			observability.WithProvider(name).Warn("circuit breaker state change",
				"from", from.String(),
				"to", to.String())

			metrics := observability.GetMetrics()
			metrics.SetCircuitBreakerState(name, stateToInt(to))
			if to == gobreaker.StateOpen {
				metrics.RecordCircuitBreakerTrip(name)
			}
		},
	}

	cb = gobreaker.NewCircuitBreaker[any](settings)
	r.breakers[name] = cb

	return cb
}

// Execute runs fn through the named circuit breaker
func (r *CircuitBreakerRegistry) Execute(ctx context.Context, name string, fn func() (any, error)) (any, error) {
	cb := r.GetBreaker(name)

	result, err := cb.Execute(func() (any, error) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return fn()
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		observability.WithProvider(name).Warn("circuit breaker open, rejecting request")
		return nil, fmt.Errorf("%w: %s circuit breaker open", ErrServiceUnavailable, name)
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		observability.WithProvider(name).Warn("circuit breaker half-open, too many requests")
		return nil, fmt.Errorf("%w: %s has too many requests in half-open state", ErrServiceUnavailable, name)
	}

	return result, err
}

// Ready reports whether the named breaker would currently admit a call
func (r *CircuitBreakerRegistry) Ready(name string) bool {
	r.mu.RLock()
	cb, exists := r.breakers[name]
	r.mu.RUnlock()

	return !exists || cb.State() != gobreaker.StateOpen
}

// Status returns the current state of all circuit breakers
func (r *CircuitBreakerRegistry) Status() map[string]CircuitBreakerStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := make(map[string]CircuitBreakerStatus, len(r.breakers))
	for name, cb := range r.breakers {
		counts := cb.Counts()
		status[name] = CircuitBreakerStatus{
			Name:             name,
			State:            cb.State().String(),
			Requests:         counts.Requests,
			TotalSuccesses:   counts.TotalSuccesses,
			TotalFailures:    counts.TotalFailures,
			ConsecutiveSucc:  counts.ConsecutiveSuccesses,
			ConsecutiveFails: counts.ConsecutiveFailures,
		}
	}
	return status
}

// CircuitBreakerStatus represents the current state of a circuit breaker
type CircuitBreakerStatus struct {
	Name             string `json:"name"`
	State            string `json:"state"`
	Requests         uint32 `json:"requests"`
	TotalSuccesses   uint32 `json:"total_successes"`
	TotalFailures    uint32 `json:"total_failures"`
	ConsecutiveSucc  uint32 `json:"consecutive_successes"`
	ConsecutiveFails uint32 `json:"consecutive_failures"`
}

var (
	globalRegistry *CircuitBreakerRegistry
	registryMu     sync.Mutex
)

// GetGlobalRegistry returns the process-wide circuit breaker registry
func GetGlobalRegistry() *CircuitBreakerRegistry {
	registryMu.Lock()
	defer registryMu.Unlock()

	if globalRegistry == nil {
		globalRegistry = NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	}
	return globalRegistry
}

// SetGlobalRegistry replaces the global registry (useful for testing)
func SetGlobalRegistry(r *CircuitBreakerRegistry) {
	registryMu.Lock()
	defer registryMu.Unlock()

	globalRegistry = r
}

// WithCircuitBreaker wraps a function call with circuit breaker protection
func WithCircuitBreaker[T any](ctx context.Context, name string, fn func() (T, error)) (T, error) {
	result, err := GetGlobalRegistry().Execute(ctx, name, func() (any, error) {
		return fn()
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result.(T), nil
}

// Circuit breaker names, one per analysis provider
const (
	BreakerGemini  = "gemini"
	BreakerOpenAI  = "openai"
	BreakerBedrock = "bedrock"
)

// stateToInt converts a circuit breaker state to an integer for metrics
// 0=closed, 1=half-open, 2=open
func stateToInt(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
