package metrics

import (
	"time"

	"github.com/krisalay/ttl-memo/types"
)

// Tee forwards every event to each of its sinks in order.
type Tee []types.Metrics

func (t Tee) Hit() {
	for _, m := range t {
		m.Hit()
	}
}

func (t Tee) Miss() {
	for _, m := range t {
		m.Miss()
	}
}

func (t Tee) Expire() {
	for _, m := range t {
		m.Expire()
	}
}

func (t Tee) Shared() {
	for _, m := range t {
		m.Shared()
	}
}

func (t Tee) Failure() {
	for _, m := range t {
		m.Failure()
	}
}

func (t Tee) Computed(d time.Duration) {
	for _, m := range t {
		m.Computed(d)
	}
}
