// Package metrics provides types.Metrics implementations: plain counters that
// back Stats, a Prometheus exporter and a fan-out.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/krisalay/ttl-memo/types"
)

// Prometheus exports cache events as Prometheus metrics.
type Prometheus struct {
	Hits        prometheus.Counter
	Misses      prometheus.Counter
	Expirations prometheus.Counter
	SharedCalls prometheus.Counter
	Failures    prometheus.Counter
	ComputeTime prometheus.Histogram
}

var _ types.Metrics = (*Prometheus)(nil)

// NewPrometheus registers the cache metrics under namespace with reg.
// A nil reg means prometheus.DefaultRegisterer.
func NewPrometheus(namespace string, reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Prometheus{
		Hits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memo",
			Name:      "hits_total",
			Help:      "Calls answered from a live entry",
		}),
		Misses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memo",
			Name:      "misses_total",
			Help:      "Calls that found no live entry",
		}),
		Expirations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memo",
			Name:      "expirations_total",
			Help:      "Stale entries removed",
		}),
		SharedCalls: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memo",
			Name:      "shared_total",
			Help:      "Calls served by a computation started by another caller",
		}),
		Failures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memo",
			Name:      "producer_failures_total",
			Help:      "Producer runs that returned an error or panicked",
		}),
		ComputeTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "memo",
			Name:      "compute_duration_seconds",
			Help:      "Producer run latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}

func (p *Prometheus) Hit()     { p.Hits.Inc() }
func (p *Prometheus) Miss()    { p.Misses.Inc() }
func (p *Prometheus) Expire()  { p.Expirations.Inc() }
func (p *Prometheus) Shared()  { p.SharedCalls.Inc() }
func (p *Prometheus) Failure() { p.Failures.Inc() }

func (p *Prometheus) Computed(d time.Duration) { p.ComputeTime.Observe(d.Seconds()) }
