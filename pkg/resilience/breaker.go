package resilience

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// State is the circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
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

func fromGobreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// Breaker is a consecutive-failure circuit breaker.
//
//	CLOSED    --threshold consecutive failures-->  OPEN
//	OPEN      --openTimeout elapsed-->             HALF_OPEN (one probe)
//	HALF_OPEN --probe ok-->                        CLOSED
//	HALF_OPEN --probe failed-->                    OPEN
//
// Every admitted call is settled as a success or a failure, including calls
// that panic or are cancelled. Permanent errors count as successes.
// A Breaker is safe for concurrent use. Each collaborator gets its own.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker creates a closed breaker.
func NewBreaker(name string, threshold int, openTimeout time.Duration, logger *slog.Logger) *Breaker {
	if threshold <= 0 {
		threshold = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("breaker", name)
	return &Breaker{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(threshold)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsPermanent(err)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			attrs := []any{"from", fromGobreaker(from).String(), "to", fromGobreaker(to).String()}
			if to == gobreaker.StateOpen {
				logger.Warn("circuit breaker state changed", attrs...)
				return
			}
			logger.Info("circuit breaker state changed", attrs...)
		},
	})}
}

// State returns the current state. An open breaker whose timeout has
// elapsed reports HALF_OPEN.
func (b *Breaker) State() State {
	return fromGobreaker(b.cb.State())
}

// Call runs fn if the breaker admits it and records the outcome. It returns
// ErrCircuitOpen without calling fn while the breaker is open or while the
// half-open probe is in flight.
func (b *Breaker) Call(fn func() error) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}
