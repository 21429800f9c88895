package types

import "time"

// Timestamps is the expiry metadata of a cache entry. Expiration strategies
// only ever see this part of an entry, never the value.
type Timestamps struct {
	// CreatedAt is when the producer completed and the entry was stamped.
	CreatedAt time.Time

	// ExpiresAt is the first instant at which the entry is stale.
	// A zero value means the strategy has not stamped it yet.
	ExpiresAt time.Time
}

/*
Entry is one memoized result.

Entries are built completely before they are published to a shard store and
are never modified afterwards. A newer result for the same key replaces the
whole entry, so readers holding an old pointer still see a consistent value.
*/
type Entry[V any] struct {
	Value V
	Timestamps
}
