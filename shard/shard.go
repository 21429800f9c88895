package shard

import "sync"

/*
A shard is a small, independent piece of the cache.
Instead of having one big map and one big lock, the cache is split into shards. Each shard:
- Holds some portion of the entries
- Tracks the producer runs in flight for its keys
- Has its own lock for writes

Keys on different shards never contend with each other.
*/
type Shard[K comparable, V any] struct {

	// Store holds the key → entry data for this shard.
	// It is a copy-on-write store that allows lock-free reads.
	Store Store[K, V]

	// Flights holds one Call per key whose producer is running.
	// Guarded by Mu.
	Flights map[K]*Call[V]

	// Mu serializes writes to Store and every access to Flights.
	// - Reads of Store are lock-free
	// - Everything else is protected by this mutex
	Mu sync.Mutex
}

func NewShard[K comparable, V any]() *Shard[K, V] {
	return &Shard[K, V]{
		Store:   NewCOWStore[K, V](),
		Flights: make(map[K]*Call[V]),
	}
}

// New builds n shards.
func New[K comparable, V any](n int) []*Shard[K, V] {
	s := make([]*Shard[K, V], n)
	for i := range s {
		s[i] = NewShard[K, V]()
	}
	return s
}

// Join returns the call in flight for key, or registers a new one.
// leader reports whether the caller registered it and must run it.
// The caller must hold Mu.
func (s *Shard[K, V]) Join(key K) (c *Call[V], leader bool) {
	if c, ok := s.Flights[key]; ok {
		c.dups++
		return c, false
	}
	c = newCall[V]()
	s.Flights[key] = c
	return c, true
}

// Land publishes the result of the call for key and forgets it, so the next
// miss starts a new run. The caller must hold Mu.
func (s *Shard[K, V]) Land(key K, c *Call[V], v V, err error) {
	if s.Flights[key] == c {
		delete(s.Flights, key)
	}
	c.val, c.err = v, err
	close(c.done)
}
