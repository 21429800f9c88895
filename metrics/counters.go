package metrics

import (
	"sync/atomic"
	"time"

	"github.com/krisalay/ttl-memo/types"
)

// Stats is a point-in-time copy of the counters of a cache.
type Stats struct {
	Hits         uint64
	Misses       uint64
	Expirations  uint64
	Shared       uint64
	Failures     uint64
	Computations uint64
}

// Counters is a lock-free types.Metrics that just counts events.
// The zero value is ready to use.
type Counters struct {
	hits         atomic.Uint64
	misses       atomic.Uint64
	expirations  atomic.Uint64
	shared       atomic.Uint64
	failures     atomic.Uint64
	computations atomic.Uint64
}

var _ types.Metrics = (*Counters)(nil)

func (c *Counters) Hit()                   { c.hits.Add(1) }
func (c *Counters) Miss()                  { c.misses.Add(1) }
func (c *Counters) Expire()                { c.expirations.Add(1) }
func (c *Counters) Shared()                { c.shared.Add(1) }
func (c *Counters) Failure()               { c.failures.Add(1) }
func (c *Counters) Computed(time.Duration) { c.computations.Add(1) }

func (c *Counters) Snapshot() Stats {
	return Stats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Expirations:  c.expirations.Load(),
		Shared:       c.shared.Load(),
		Failures:     c.failures.Load(),
		Computations: c.computations.Load(),
	}
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.expirations.Store(0)
	c.shared.Store(0)
	c.failures.Store(0)
	c.computations.Store(0)
}
