package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/jonboulle/clockwork"

	"github.com/krisalay/ttl-memo/expiration"
	"github.com/krisalay/ttl-memo/types"
)

/*
Engine is the "brain" of the cache.
It is responsible for the "behavior" of the cache, NOT storage.

It decides:
- When an entry is expired
- How an entry is stamped when it is written
- How the producer is run on a miss
- How metrics and logs are recorded

It does NOT:
- Store data
- Handle sharding
- Handle locking
- Coordinate concurrent callers
*/
type Engine struct {

	// Expiration controls when an entry is considered too old. Always set.
	Expiration expiration.Strategy

	// Clock is the single time source for every expiry decision.
	Clock clockwork.Clock

	// Metrics records hits, misses, expirations and producer runs.
	Metrics types.Metrics

	// Logger receives compute and failure events.
	Logger log.Interface

	// ComputeTimeout bounds every producer run. Zero means no bound.
	ComputeTimeout time.Duration
}

/*
NewEngine creates an Engine.
Nil collaborators are replaced with defaults so callers never need nil checks.
*/
func NewEngine(
	exp expiration.Strategy,
	clock clockwork.Clock,
	metrics types.Metrics,
	logger log.Interface,
	computeTimeout time.Duration,
) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if logger == nil {
		logger = log.Log
	}

	return &Engine{
		Expiration:     exp,
		Clock:          clock,
		Metrics:        metrics,
		Logger:         logger,
		ComputeTimeout: computeTimeout,
	}
}

// Now reads the engine clock.
func (e *Engine) Now() time.Time {
	return e.Clock.Now()
}

// IsExpired checks whether the entry is stale right now.
func (e *Engine) IsExpired(ts *types.Timestamps) bool {
	return e.Expiration.IsExpired(ts, e.Clock.Now())
}

/*
OnWrite stamps an entry before it is published.
The expiry is computed from the time the producer completed, not from when
the call started.
*/
func (e *Engine) OnWrite(ts *types.Timestamps) {
	e.Expiration.OnWrite(ts, e.Clock.Now())
}

/*
Compute runs fn for key on behalf of every caller waiting for it.

- fn gets a context detached from the caller's cancellation. Waiters that
  give up do not abort the computation, so it can still populate the cache.
- ComputeTimeout, when set, is the only thing that can cut a run short. It is
  measured on the engine clock.
- A panic inside fn is turned into a failure instead of crashing the process.
- Failures come back as *types.ProducerError carrying the cause.
*/
func Compute[V any](ctx context.Context, e *Engine, key string, fn func(context.Context) (V, error)) (v V, err error) {
	ctx = context.WithoutCancel(ctx)
	if e.ComputeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = clockwork.WithTimeout(ctx, e.Clock, e.ComputeTimeout)
		defer cancel()
	}

	logger := e.Logger.WithField("key", key)
	logger.Debug("computing")

	start := e.Clock.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}

		elapsed := e.Clock.Since(start)
		e.Metrics.Computed(elapsed)

		if err != nil {
			var zero V
			v = zero
			err = &types.ProducerError{Key: key, Err: err}
			e.Metrics.Failure()
			logger.WithDuration(elapsed).WithError(err).Warn("producer failed")
			return
		}
		logger.WithDuration(elapsed).Debug("computed")
	}()

	return fn(ctx)
}
