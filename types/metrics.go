package types

import "time"

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
Implementations must be safe for concurrent use.
*/
type Metrics interface {

	// Hit is called when a live entry is returned without calling the producer.
	Hit()

	// Miss is called when the key is absent or stale and the caller has to wait for a computation.
	Miss()

	// Expire is called when a stale entry is removed, either on read or by a purge.
	Expire()

	// Shared is called when a caller received the result of a computation started by someone else.
	Shared()

	// Failure is called once per failed producer run (error or panic).
	Failure()

	// Computed is called once per producer run with how long it took.
	Computed(time.Duration)
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

We don't want to force every user of the cache to implement metrics,
and we don't want "if metrics != nil" checks on the hot path.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()                   {}
func (NoopMetrics) Miss()                  {}
func (NoopMetrics) Expire()                {}
func (NoopMetrics) Shared()                {}
func (NoopMetrics) Failure()               {}
func (NoopMetrics) Computed(time.Duration) {}
