// Package resilience wraps calls to unreliable collaborators with retries,
// a per-collaborator circuit breaker, per-call timeouts and fallbacks.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Config holds the tunables of a Policy.
type Config struct {
	MaxAttempts      int
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	Multiplier       float64
	CallTimeout      time.Duration
	FailureThreshold int
	OpenTimeout      time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:      3,
		InitialBackoff:   100 * time.Millisecond,
		MaxBackoff:       2 * time.Second,
		Multiplier:       2,
		CallTimeout:      5 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

// Policy is the resilience wrapper for one collaborator. It owns that
// collaborator's breaker, so policies must not be shared between
// collaborators.
type Policy struct {
	name    string
	cfg     Config
	breaker *Breaker
	logger  *slog.Logger
}

// NewPolicy creates a policy with its own breaker.
func NewPolicy(name string, cfg Config, logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("collaborator", name)
	return &Policy{
		name:    name,
		cfg:     cfg,
		breaker: NewBreaker(name, cfg.FailureThreshold, cfg.OpenTimeout, logger),
		logger:  logger,
	}
}

// Name returns the collaborator name.
func (p *Policy) Name() string { return p.name }

// Breaker exposes the policy's breaker.
func (p *Policy) Breaker() *Breaker { return p.breaker }

// Fallback produces the result used when the collaborator cannot be reached.
type Fallback[T any] func(ctx context.Context, cause error) (T, error)

// FallbackValue always returns v.
func FallbackValue[T any](v T) Fallback[T] {
	return func(context.Context, error) (T, error) { return v, nil }
}

// FallbackUnavailable returns ErrServiceUnavailable wrapping the cause.
func FallbackUnavailable[T any]() Fallback[T] {
	return func(_ context.Context, cause error) (T, error) {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrServiceUnavailable, cause)
	}
}

// Execute runs call under p. Every attempt is gated by the breaker and bounded
// by the call timeout; failed attempts are retried with backoff. When all
// attempts fail or the breaker is open, fallback supplies the result.
// Permanent errors are returned unwrapped and never reach the fallback.
// Cancellation of ctx is returned as is and counts as a breaker failure.
func Execute[T any](ctx context.Context, p *Policy, call func(ctx context.Context) (T, error), fallback Fallback[T]) (T, error) {
	var (
		result T
		zero   T
	)
	bo := Backoff{Initial: p.cfg.InitialBackoff, Max: p.cfg.MaxBackoff, Multiplier: p.cfg.Multiplier}
	attempt := 0
	err := retry(ctx, p.cfg.MaxAttempts, bo, func(ctx context.Context) error {
		attempt++
		return p.breaker.Call(func() error {
			callCtx, cancel := p.callContext(ctx)
			defer cancel()
			v, err := call(callCtx)
			if err != nil {
				return err
			}
			result = v
			return nil
		})
	}, func(err error, next time.Duration) {
		p.logger.Debug("call failed", "attempt", attempt, "retry_in", next, "error", err)
	})
	if err == nil {
		return result, nil
	}
	if IsPermanent(err) {
		return zero, unwrapPermanent(err)
	}
	if cerr := ctx.Err(); cerr != nil {
		return zero, fmt.Errorf("%s: %w", p.name, cerr)
	}
	if fallback == nil {
		return zero, fmt.Errorf("%s: %w", p.name, err)
	}
	if errors.Is(err, ErrCircuitOpen) {
		p.logger.Warn("circuit open, using fallback")
	} else {
		p.logger.Warn("retries exhausted, using fallback", "attempts", attempt, "error", err)
	}
	return fallback(ctx, err)
}

func (p *Policy) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.CallTimeout > 0 {
		return context.WithTimeout(ctx, p.cfg.CallTimeout)
	}
	return context.WithCancel(ctx)
}
