package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Backoff describes an exponential delay between attempts.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

func (b Backoff) exponential() *backoff.ExponentialBackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = b.Initial
	eb.MaxInterval = b.Max
	if eb.MaxInterval <= 0 {
		eb.MaxInterval = backoff.DefaultMaxInterval
	}
	eb.Multiplier = b.Multiplier
	if eb.Multiplier < 1 {
		eb.Multiplier = 1
	}
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0
	return eb
}

// Retry calls fn up to attempts times, sleeping according to bo between
// attempts. It stops early on success, on a Permanent error, on
// ErrCircuitOpen, or when ctx is done. The last error is returned, or the
// context error once ctx is done.
func Retry(ctx context.Context, attempts int, bo Backoff, fn func(ctx context.Context) error) error {
	return retry(ctx, attempts, bo, fn, nil)
}

func retry(ctx context.Context, attempts int, bo Backoff, fn func(ctx context.Context) error, notify backoff.Notify) error {
	if attempts <= 0 {
		attempts = 1
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(bo.exponential(), uint64(attempts-1)), ctx)
	return backoff.RetryNotify(func() error {
		err := fn(ctx)
		if err != nil && (IsPermanent(err) || errors.Is(err, ErrCircuitOpen)) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, notify)
}
