package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	api "github.com/krisalay/ttl-memo/api"
	"github.com/krisalay/ttl-memo/engine"
	"github.com/krisalay/ttl-memo/expiration"
	"github.com/krisalay/ttl-memo/metrics"
	"github.com/krisalay/ttl-memo/shard"
	"github.com/krisalay/ttl-memo/types"
)

/*
MemoCache memoizes a producer for TTL.
This struct is the orchestrator that connects:
- shards (storage and in-flight producer runs)
- the engine (expiry, producer runs, metrics, logging)
*/
type MemoCache[K comparable, V any] struct {
	// shards are the storage units. Each shard is an independent mini-store.
	shards []*shard.Shard[ident[K], V]

	// selector decides which shard a key goes to.
	selector shard.Selector[ident[K], V]

	// engine contains the rules of the cache: TTL, clock, metrics, logger.
	engine *engine.Engine

	// producer is the memoized computation.
	producer types.Producer[K, V]

	// stats always counts, whatever sink the caller configured.
	stats *metrics.Counters

	janitor *janitor
}

var _ api.Memoizer[string, any] = (*MemoCache[string, any])(nil)

// Stats is a point-in-time copy of the cache counters.
type Stats = metrics.Stats

// New builds a cache around producer. It fails with ErrInvalidConfiguration
// when cfg does not validate or producer is nil.
func New[K comparable, V any](cfg Config, producer types.Producer[K, V], opts ...Option) (*MemoCache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, types.Invalid("producer must not be nil")
	}

	exp, err := expiration.NewExpireAfterWrite(cfg.TTL)
	if err != nil {
		return nil, err
	}

	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	stats := &metrics.Counters{}
	var sink types.Metrics = stats
	if s.metrics != nil {
		sink = metrics.Tee{stats, s.metrics}
	}

	c := &MemoCache[K, V]{
		shards:   shard.New[ident[K], V](cfg.shards()),
		selector: shard.NewHashSelector[ident[K], V](),
		engine:   engine.NewEngine(exp, s.clock, sink, s.logger, cfg.ComputeTimeout),
		producer: producer,
		stats:    stats,
	}

	if cfg.PurgeInterval > 0 {
		c.janitor = startJanitor(c.engine.Clock, cfg.PurgeInterval, func() { c.Purge() })
	}

	return c, nil
}

/*
Memoize wraps producer in a cache with the given TTL and returns a function
with the producer's own signature.

	fetch, err := cache.Memoize(10*time.Second, fetchData)
	data, err := fetch(ctx, 1)
*/
func Memoize[K comparable, V any](ttl time.Duration, producer types.Producer[K, V], opts ...Option) (func(context.Context, K) (V, error), error) {
	c, err := New(Config{TTL: ttl}, producer, opts...)
	if err != nil {
		return nil, err
	}
	return c.Func(), nil
}

// Func returns GetOrCompute as a plain function value.
func (c *MemoCache[K, V]) Func() func(context.Context, K) (V, error) {
	return c.GetOrCompute
}

// GetOrCompute returns the live value for key or computes it. See api.Memoizer.
func (c *MemoCache[K, V]) GetOrCompute(ctx context.Context, key K) (V, error) {
	return c.get(ctx, key, 0)
}

// GetOrComputeWithTTL is GetOrCompute with a per-call TTL for a newly computed
// entry. If the call joins a computation started by another caller, the
// lifetime requested by that caller applies.
func (c *MemoCache[K, V]) GetOrComputeWithTTL(ctx context.Context, key K, ttl time.Duration) (V, error) {
	if ttl <= 0 {
		var zero V
		return zero, types.Invalid("ttl must be positive, got %v", ttl)
	}
	return c.get(ctx, key, ttl)
}

func (c *MemoCache[K, V]) get(ctx context.Context, key K, ttl time.Duration) (V, error) {
	var zero V

	id := identOf(key)
	sh := c.selector.Select(id, c.shards)

	if v, ok := c.lookup(sh, id); ok {
		c.engine.Metrics.Hit()
		return v, nil
	}

	c.engine.Metrics.Miss()

	if err := ctx.Err(); err != nil {
		return zero, types.Cancelled(err)
	}

	// Looking for a live entry and joining a flight happen under one lock, and
	// a flight stores its result and leaves under that same lock. A caller
	// therefore sees either the entry or the flight, never neither.
	sh.Mu.Lock()
	if v, ok := c.liveLocked(sh, id); ok {
		sh.Mu.Unlock()
		return v, nil
	}
	call, leader := sh.Join(id)
	sh.Mu.Unlock()

	if leader {
		go c.fly(ctx, sh, id, key, call, ttl)
	} else {
		c.engine.Metrics.Shared()
	}

	select {
	case <-call.Done():
		return call.Result()

	case <-ctx.Done():
		return zero, types.Cancelled(ctx.Err())
	}
}

// fly runs the producer for a call this caller leads and lands the result.
// It runs on its own goroutine so the leader can stop waiting like anyone else.
func (c *MemoCache[K, V]) fly(ctx context.Context, sh *shard.Shard[ident[K], V], id ident[K], key K, call *shard.Call[V], ttl time.Duration) {
	v, err := engine.Compute(ctx, c.engine, id.String(), func(ctx context.Context) (V, error) {
		return c.producer(ctx, key)
	})

	var ent *types.Entry[V]
	if err == nil {
		ent = c.entry(v, ttl)
	}

	sh.Mu.Lock()
	if ent != nil {
		sh.Store.Put(id, ent)
	}
	if n := call.Dups(); n > 0 {
		c.engine.Logger.WithField("key", id.String()).WithField("waiters", n).Debug("shared")
	}
	sh.Land(id, call, v, err)
	sh.Mu.Unlock()
}

// lookup returns the value of a live entry. A stale entry it finds is removed,
// unless it was replaced in the meantime.
func (c *MemoCache[K, V]) lookup(sh *shard.Shard[ident[K], V], id ident[K]) (V, bool) {
	var zero V

	ent, ok := sh.Store.Get(id)
	if !ok {
		return zero, false
	}
	if !c.engine.IsExpired(&ent.Timestamps) {
		return ent.Value, true
	}

	sh.Mu.Lock()
	defer sh.Mu.Unlock()
	return c.liveLocked(sh, id)
}

// liveLocked is lookup for a caller that already holds sh.Mu.
func (c *MemoCache[K, V]) liveLocked(sh *shard.Shard[ident[K], V], id ident[K]) (V, bool) {
	var zero V

	ent, ok := sh.Store.Get(id)
	if !ok {
		return zero, false
	}
	if !c.engine.IsExpired(&ent.Timestamps) {
		return ent.Value, true
	}
	if sh.Store.CompareAndDelete(id, ent) {
		c.engine.Metrics.Expire()
	}
	return zero, false
}

// entry stamps v for storage. A positive ttl overrides the cache TTL.
func (c *MemoCache[K, V]) entry(v V, ttl time.Duration) *types.Entry[V] {
	ent := &types.Entry[V]{Value: v}
	if ttl > 0 {
		ent.ExpiresAt = c.engine.Now().Add(ttl)
	}
	c.engine.OnWrite(&ent.Timestamps)
	return ent
}

// Remove drops the entry for key. A computation in flight for key is left
// alone so there is never more than one producer run per key.
func (c *MemoCache[K, V]) Remove(key K) {
	id := identOf(key)
	sh := c.selector.Select(id, c.shards)

	sh.Mu.Lock()
	defer sh.Mu.Unlock()
	sh.Store.Delete(id)
}

// Clear drops every entry.
func (c *MemoCache[K, V]) Clear() {
	for _, sh := range c.shards {
		sh.Mu.Lock()
		sh.Store.Reset()
		sh.Mu.Unlock()
	}
}

/*
TTL returns remaining time-to-live of a key, or -2 if there is no live entry.
*/
func (c *MemoCache[K, V]) TTL(key K) time.Duration {
	id := identOf(key)
	sh := c.selector.Select(id, c.shards)

	ent, ok := sh.Store.Get(id)
	if !ok {
		return -2
	}

	d := ent.ExpiresAt.Sub(c.engine.Now())
	if d <= 0 {
		return -2
	}
	return d
}

// Len returns how many entries are stored, stale ones included.
func (c *MemoCache[K, V]) Len() int {
	n := int64(0)
	for _, sh := range c.shards {
		n += sh.Store.Size()
	}
	return int(n)
}

// Purge removes every stale entry and returns how many were removed.
func (c *MemoCache[K, V]) Purge() int {
	total := 0
	for _, sh := range c.shards {
		sh.Mu.Lock()
		n := sh.Store.DeleteFunc(func(_ ident[K], ent *types.Entry[V]) bool {
			return c.engine.IsExpired(&ent.Timestamps)
		})
		sh.Mu.Unlock()

		for i := 0; i < n; i++ {
			c.engine.Metrics.Expire()
		}
		total += n
	}
	return total
}

// Stats returns the counters since construction or the last ResetStats.
func (c *MemoCache[K, V]) Stats() Stats {
	return c.stats.Snapshot()
}

// ResetStats zeroes the counters behind Stats. Other metric sinks are not touched.
func (c *MemoCache[K, V]) ResetStats() {
	c.stats.Reset()
}

/*
Close stops the purge janitor. Entries stay readable after Close.
*/
func (c *MemoCache[K, V]) Close() {
	if c.janitor != nil {
		c.janitor.stop()
	}
}

/*
ident is the identity of a key inside the cache. Two keys share an entry and a
producer run exactly when their idents are ==.

By default that is the key itself, compared with Go's ==. A key implementing
types.Keyer is identified by its CacheKey instead, so callers can make keys
that are not == share an entry.
*/
type ident[K comparable] struct {
	key    K
	tag    string
	tagged bool
}

func identOf[K comparable](key K) ident[K] {
	if k, ok := any(key).(types.Keyer); ok {
		return ident[K]{tag: k.CacheKey(), tagged: true}
	}
	return ident[K]{key: key}
}

// String renders the identity for logs and errors only.
func (id ident[K]) String() string {
	if id.tagged {
		return id.tag
	}
	return fmt.Sprintf("%v", id.key)
}

/*
janitor runs purge in the background until stopped.
*/
type janitor struct {
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// startJanitor ticks on clock, so a fake clock drives purges in tests.
func startJanitor(clock clockwork.Clock, interval time.Duration, purge func()) *janitor {
	j := &janitor{done: make(chan struct{})}

	t := clock.NewTicker(interval)

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		defer t.Stop()

		for {
			select {
			case <-t.Chan():
				purge()
			case <-j.done:
				return
			}
		}
	}()

	return j
}

// stop signals the worker and waits for it, so no purge runs after Close returns.
func (j *janitor) stop() {
	j.once.Do(func() { close(j.done) })
	j.wg.Wait()
}
