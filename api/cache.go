package cache

import (
	"context"
	"time"
)

/*
Memoizer defines the PUBLIC API of a TTL memoization cache.
It hides sharding, expiry, single-flight coordination and metrics behind a
single call: give me the value for this key.
*/
type Memoizer[K comparable, V any] interface {

	/*
		GetOrCompute returns the value for key.

		BEHAVIOR:
		-------------------
		1. If a live entry exists:
		   - Return it immediately, the producer is not called (cache hit)

		2. If the entry is absent or stale:
		   - If another caller is already computing this key, wait for its result
		   - Otherwise run the producer, store the result with a fresh expiry and
		     hand it to every waiting caller (cache miss)

		3. If the producer fails:
		   - Every waiting caller gets the failure, nothing is stored
		   - The next call runs the producer again

		If ctx is done first, the caller stops waiting and gets ErrCancelled.
		The computation itself keeps running for the other callers.
	*/
	GetOrCompute(ctx context.Context, key K) (V, error)

	/*
		GetOrComputeWithTTL is GetOrCompute with a per-call lifetime for the
		entry it creates. It does not change the lifetime of an entry that is
		already live.
	*/
	GetOrComputeWithTTL(ctx context.Context, key K, ttl time.Duration) (V, error)

	/*
		Remove drops the entry for key.

		- Idempotent: removing a missing key is safe
		- A computation already running for key is not affected and will store
		  its result when it completes
	*/
	Remove(key K)

	// Clear drops every entry. Running computations are not affected.
	Clear()

	/*
		TTL returns the remaining lifetime of the entry for key.

		RETURN VALUES:
		--------------
		> 0   : Duration remaining before expiration
		-2    : Key does not exist or is already expired
	*/
	TTL(key K) time.Duration

	// Len returns the number of stored entries, including stale ones not yet purged.
	Len() int

	/*
		Close stops background work.

		- Stops the purge janitor, if any
		- Safe to call more than once
	*/
	Close()
}
