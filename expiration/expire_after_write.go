package expiration

import (
	"time"

	"github.com/krisalay/ttl-memo/types"
)

/*
ExpireAfterWrite implements a fixed TTL: an entry lives for TTL after the
producer that built it completed, no matter how often it is read. Reads never
push the expiry forward, so a returned value is never older than TTL.
*/
type ExpireAfterWrite struct {
	ttl time.Duration
}

// NewExpireAfterWrite rejects a zero or negative TTL.
func NewExpireAfterWrite(ttl time.Duration) (*ExpireAfterWrite, error) {
	if ttl <= 0 {
		return nil, types.Invalid("ttl must be positive, got %v", ttl)
	}
	return &ExpireAfterWrite{ttl: ttl}, nil
}

func (e *ExpireAfterWrite) TTL() time.Duration { return e.ttl }

// IsExpired treats the expiry instant itself as stale: an entry is live only
// while now < ExpiresAt.
func (e *ExpireAfterWrite) IsExpired(ts *types.Timestamps, now time.Time) bool {
	return !ts.ExpiresAt.IsZero() && !now.Before(ts.ExpiresAt)
}

/*
OnWrite is called when the entry is first written or replaced in the cache.
- We record when the entry was created
- We set ExpiresAt if it is not already set

ExpiresAt is only set when it is zero because the caller may have asked for a
per-call TTL, which must not be overwritten.
*/
func (e *ExpireAfterWrite) OnWrite(ts *types.Timestamps, now time.Time) {
	ts.CreatedAt = now
	if ts.ExpiresAt.IsZero() {
		ts.ExpiresAt = now.Add(e.ttl)
	}
}
