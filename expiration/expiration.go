// This file defines how cache entries expire over time.

package expiration

import (
	"time"

	"github.com/krisalay/ttl-memo/types"
)

/*
Strategy is the interface that all expiration rules must follow. Instead of hard-coding
expiration logic into the cache, we define a strategy so expiration behavior can be swapped easily.

Strategies only see the timestamps of an entry, never its value.
*/
type Strategy interface {

	// IsExpired reports whether the entry is stale at now.
	IsExpired(*types.Timestamps, time.Time) bool

	// OnWrite stamps an entry right before it is published to the store.
	OnWrite(*types.Timestamps, time.Time)

	// TTL is the lifetime applied to entries that carry no explicit expiry.
	TTL() time.Duration
}
