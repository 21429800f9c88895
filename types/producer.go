package types

import "context"

/*
Producer is the expensive computation the cache memoizes.

It is called on a miss, with the original call arguments:
 1. Cache checks memory → key not found or stale
 2. Cache checks if another caller is already computing the key
 3. If not, cache calls the Producer
 4. Cache stores the result with a fresh expiry
 5. Cache hands the value to every caller waiting for it

The context passed to a Producer carries the values of the caller that
started the computation but not its cancellation: other callers may still be
waiting for the result.
*/
type Producer[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Keyer lets a key type choose its own cache identity: keys with the same
// CacheKey share an entry. Keys that do not implement it are compared with ==.
type Keyer interface {
	CacheKey() string
}
