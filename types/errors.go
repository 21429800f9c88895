package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when a cache or a call is configured
	// with a TTL or timeout that cannot be used. Values are never clamped.
	ErrInvalidConfiguration = errors.New("cache: invalid configuration")

	// ErrProducerFailure matches every error produced by a failed computation.
	ErrProducerFailure = errors.New("cache: producer failed")

	// ErrCancelled is returned to a caller that stopped waiting before the
	// computation it waited for resolved. It says nothing about the producer.
	ErrCancelled = errors.New("cache: cancelled")
)

// ProducerError carries the cause of a failed computation to every caller
// that waited for it. It matches both ErrProducerFailure and its cause.
type ProducerError struct {
	Key string
	Err error
}

func (e *ProducerError) Error() string {
	return fmt.Sprintf("cache: producer failed for key %s: %v", e.Key, e.Err)
}

func (e *ProducerError) Unwrap() error { return e.Err }

func (e *ProducerError) Is(target error) bool { return target == ErrProducerFailure }

// Cancelled wraps the context error of a caller that gave up waiting.
func Cancelled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// Invalid builds an ErrInvalidConfiguration error with a reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
