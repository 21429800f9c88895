package cache

import "github.com/krisalay/ttl-memo/types"

// Errors returned by the cache. See the types package for details.
var (
	ErrInvalidConfiguration = types.ErrInvalidConfiguration
	ErrProducerFailure      = types.ErrProducerFailure
	ErrCancelled            = types.ErrCancelled
)

// ProducerError is the concrete error returned when a producer fails.
type ProducerError = types.ProducerError
