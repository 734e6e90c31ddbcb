package resilience

import "errors"

var (
	// ErrCircuitOpen is returned when the breaker rejects a call without
	// contacting the collaborator.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrServiceUnavailable is the canned failure returned by fallbacks for
	// collaborators that have no sensible default value.
	ErrServiceUnavailable = errors.New("service unavailable, try later")
)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Permanent errors are a definite
// answer from the collaborator (e.g. "not found"), so they are neither
// retried, counted as breaker failures, nor replaced by a fallback.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

func unwrapPermanent(err error) error {
	var pe *permanentError
	if errors.As(err, &pe) {
		return pe.err
	}
	return err
}
