package ai

import (
	"fmt"

	"interviewprep/internal/config"
	"interviewprep/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// CompletionBreaker wraps completion calls with the circuit breaker pattern.
// It only fails fast while open; it never retries.
type CompletionBreaker struct {
	cb *gobreaker.CircuitBreaker[*Completion]
}

// NewCompletionBreaker returns nil when the breaker is disabled. A nil
// breaker executes calls directly.
func NewCompletionBreaker(provider string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *CompletionBreaker {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = errors.Discard()
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("AI-%s", provider),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"provider", provider,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}

	return &CompletionBreaker{
		cb: gobreaker.NewCircuitBreaker[*Completion](settings),
	}
}

// Execute runs fn with circuit breaker protection
func (b *CompletionBreaker) Execute(fn func() (*Completion, error)) (*Completion, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Stats returns circuit breaker statistics
func (b *CompletionBreaker) Stats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// State is "closed", "half-open", "open", or "disabled"
func (b *CompletionBreaker) State() string {
	if b == nil || b.cb == nil {
		return "disabled"
	}
	return b.cb.State().String()
}

// IsHealthy returns true if the circuit breaker is in closed state
func (b *CompletionBreaker) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
