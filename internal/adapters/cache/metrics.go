package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/zerr"
)

const (
	namespace = "flow"
	subsystem = "cache"
)

// Metrics holds the collectors shared by all caches of an engine, labelled by cache name.
// A nil *Metrics records nothing.
type Metrics struct {
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	evictions *prometheus.CounterVec
	entries   *prometheus.GaugeVec
}

// NewMetrics creates the cache collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "hits_total",
			Help:      "Number of cache lookups that found an entry.",
		}, []string{"cache"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "misses_total",
			Help:      "Number of cache lookups that found no entry.",
		}, []string{"cache"}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evictions_total",
			Help:      "Number of entries evicted to honour the cache capacity.",
		}, []string{"cache"}),
		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "entries",
			Help:      "Current number of cached entries.",
		}, []string{"cache"}),
	}

	for _, c := range []prometheus.Collector{m.hits, m.misses, m.evictions, m.entries} {
		if err := reg.Register(c); err != nil {
			return nil, zerr.Wrap(err, "failed to register cache metrics")
		}
	}
	return m, nil
}

func (m *Metrics) hit(name string) {
	if m != nil {
		m.hits.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) miss(name string) {
	if m != nil {
		m.misses.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) evict(name string) {
	if m != nil {
		m.evictions.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) size(name string, n int) {
	if m != nil {
		m.entries.WithLabelValues(name).Set(float64(n))
	}
}
