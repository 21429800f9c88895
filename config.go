package cache

import (
	"time"

	"github.com/apex/log"
	"github.com/jonboulle/clockwork"

	"github.com/krisalay/ttl-memo/types"
)

// DefaultShards is used when Config.Shards is zero.
const DefaultShards = 16

/*
Config holds the settings of one cache instance. They are fixed at construction.
*/
type Config struct {

	// TTL is how long an entry stays live after its producer completed. Required, must be positive.
	TTL time.Duration

	// Shards is the number of independent store partitions. Zero means DefaultShards.
	Shards int

	// ComputeTimeout bounds every producer run. Zero means producers run until they return.
	ComputeTimeout time.Duration

	// PurgeInterval starts a janitor that removes stale entries at this interval.
	// Zero disables it; stale entries are then removed when read or overwritten.
	PurgeInterval time.Duration
}

// Validate rejects settings that cannot be used. Nothing is clamped.
func (c Config) Validate() error {
	switch {
	case c.TTL <= 0:
		return types.Invalid("ttl must be positive, got %v", c.TTL)
	case c.Shards < 0:
		return types.Invalid("shards must not be negative, got %d", c.Shards)
	case c.ComputeTimeout < 0:
		return types.Invalid("compute timeout must not be negative, got %v", c.ComputeTimeout)
	case c.PurgeInterval < 0:
		return types.Invalid("purge interval must not be negative, got %v", c.PurgeInterval)
	}
	return nil
}

func (c Config) shards() int {
	if c.Shards == 0 {
		return DefaultShards
	}
	return c.Shards
}

type settings struct {
	clock   clockwork.Clock
	metrics types.Metrics
	logger  log.Interface
}

// Option customizes collaborators of a cache that are not plain settings.
type Option func(*settings)

// WithClock replaces the real clock, typically with a *clockwork.FakeClock in tests.
// The clock also drives the purge janitor.
func WithClock(c clockwork.Clock) Option {
	return func(s *settings) { s.clock = c }
}

// WithMetrics adds a metrics sink. Stats keeps working regardless.
func WithMetrics(m types.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithLogger replaces the apex/log default logger.
func WithLogger(l log.Interface) Option {
	return func(s *settings) { s.logger = l }
}
