// Package metrics holds the Prometheus collectors of the membership cache,
// the aggregation pipeline and the status sweeper.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without a registry in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ptrainer"

// Metrics groups every collector the service exports.
type Metrics struct {
	cacheLookups       *prometheus.CounterVec
	cacheWrites        *prometheus.CounterVec
	cacheInvalidations *prometheus.CounterVec
	buildDuration      *prometheus.HistogramVec
	sweepChecked       prometheus.Counter
	sweepExpired       prometheus.Counter
	sweepFailed        prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by cache and result (hit, miss, stale).",
		}, []string{"cache", "result"}),
		cacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "writes_total",
			Help:      "Cache writes by cache and outcome (stored, skipped).",
		}, []string{"cache", "outcome"}),
		cacheInvalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Cache invalidations by cache.",
		}, []string{"cache"}),
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "build_duration_seconds",
			Help:      "Time spent building a membership aggregate.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		sweepChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "checked_total",
			Help:      "Active memberships examined by the status sweep.",
		}),
		sweepExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "expired_total",
			Help:      "Memberships flipped to inactive by the status sweep.",
		}),
		sweepFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "failed_total",
			Help:      "Memberships the status sweep could not update.",
		}),
	}

	collectors := []prometheus.Collector{
		m.cacheLookups, m.cacheWrites, m.cacheInvalidations, m.buildDuration,
		m.sweepChecked, m.sweepExpired, m.sweepFailed,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) CacheLookup(cache, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) CacheWrite(cache, outcome string) {
	if m == nil {
		return
	}
	m.cacheWrites.WithLabelValues(cache, outcome).Inc()
}

func (m *Metrics) CacheInvalidation(cache string) {
	if m == nil {
		return
	}
	m.cacheInvalidations.WithLabelValues(cache).Inc()
}

func (m *Metrics) ObserveBuild(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.buildDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) SweepResult(checked, expired, failed int) {
	if m == nil {
		return
	}
	m.sweepChecked.Add(float64(checked))
	m.sweepExpired.Add(float64(expired))
	m.sweepFailed.Add(float64(failed))
}
