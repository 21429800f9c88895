package shard

import (
	"sync/atomic"

	"github.com/krisalay/ttl-memo/types"
)

/*
This file defines how entries are actually stored inside a shard. This is NOT a normal map.
- Reads should be very fast
- Reads should NOT require locks
- Writes are less frequent (one per producer run) and can afford extra work

To achieve this, we use a technique called: "Copy-On-Write" (COW)
*/

// Store is the interface used by a shard to store and retrieve cache entries.
// Keys are compared with ==, exactly as a Go map compares them.
// Writers must hold the owning shard's Mu; readers need no lock.
type Store[K comparable, V any] interface {

	// Get retrieves an entry by key.
	Get(K) (*types.Entry[V], bool)

	// Put inserts or replaces an entry.
	Put(K, *types.Entry[V])

	// Delete removes an entry.
	Delete(K)

	// CompareAndDelete removes the entry only if it is still the given one.
	CompareAndDelete(K, *types.Entry[V]) bool

	// DeleteFunc removes every entry for which fn returns true and returns how many were removed.
	DeleteFunc(fn func(K, *types.Entry[V]) bool) int

	// Reset drops every entry.
	Reset()

	// Size returns how many entries are stored.
	Size() int64
}

/*
cowStore is a Copy-On-Write implementation of Store.

- Readers always see an immutable snapshot
- Writers create a NEW copy of the map
- The new map replaces the old one atomically

Write cost: every Put, Delete and CompareAndDelete copies the whole shard map,
so a single write is O(n) in the shard size and filling a shard of n entries
one miss at a time is O(n²). Reads stay lock-free and O(1). This suits
read-heavy memoization with a bounded key set; for large, write-heavy key
sets raise Config.Shards so each copy stays small.
*/
type cowStore[K comparable, V any] struct {
	data atomic.Pointer[map[K]*types.Entry[V]]
	size atomic.Int64
}

func NewCOWStore[K comparable, V any]() Store[K, V] {
	s := &cowStore[K, V]{}
	m := make(map[K]*types.Entry[V])
	s.data.Store(&m)
	return s
}

func (s *cowStore[K, V]) snapshot() map[K]*types.Entry[V] {
	return *s.data.Load()
}

func (s *cowStore[K, V]) publish(m map[K]*types.Entry[V]) {
	s.data.Store(&m)
	s.size.Store(int64(len(m)))
}

// Get retrieves an entry from the current snapshot.
func (s *cowStore[K, V]) Get(key K) (*types.Entry[V], bool) {
	ent, ok := s.snapshot()[key]
	return ent, ok
}

/*
Put inserts or updates an entry in the store. This is where copy-on-write happens.

1. Load the current map
2. Create a NEW map and copy all existing entries
3. Add the new entry
4. Atomically replace the old map
*/
func (s *cowStore[K, V]) Put(key K, ent *types.Entry[V]) {
	old := s.snapshot()
	n := make(map[K]*types.Entry[V], len(old)+1)
	for k, v := range old {
		n[k] = v
	}
	n[key] = ent
	s.publish(n)
}

func (s *cowStore[K, V]) Delete(key K) {
	old := s.snapshot()
	if _, ok := old[key]; !ok {
		return
	}
	n := make(map[K]*types.Entry[V], len(old))
	for k, v := range old {
		n[k] = v
	}
	delete(n, key)
	s.publish(n)
}

func (s *cowStore[K, V]) CompareAndDelete(key K, ent *types.Entry[V]) bool {
	if cur, ok := s.Get(key); !ok || cur != ent {
		return false
	}
	s.Delete(key)
	return true
}

func (s *cowStore[K, V]) DeleteFunc(fn func(K, *types.Entry[V]) bool) int {
	old := s.snapshot()
	n := make(map[K]*types.Entry[V], len(old))
	removed := 0
	for k, v := range old {
		if fn(k, v) {
			removed++
			continue
		}
		n[k] = v
	}
	if removed > 0 {
		s.publish(n)
	}
	return removed
}

func (s *cowStore[K, V]) Reset() {
	s.publish(make(map[K]*types.Entry[V]))
}

// Size returns how many entries are in the store.
func (s *cowStore[K, V]) Size() int64 {
	return s.size.Load()
}
