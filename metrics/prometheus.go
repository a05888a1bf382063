// api/metrics/prometheus.go

// Package metrics exports ACL cache signals as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dev-mohitbeniwal/aegis/api/aclcache"
)

// PrometheusMetrics implements aclcache.Metrics on Prometheus counters.
type PrometheusMetrics struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	stores prometheus.Counter
	evicts prometheus.Counter
	clears prometheus.Counter
}

// NewPrometheusMetrics registers the adapter's counters with reg; nil
// means the default registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PrometheusMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis",
			Subsystem: "acl_cache",
			Name:      "hits_total",
			Help:      "Number of ACL cache lookups that found an entry.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis",
			Subsystem: "acl_cache",
			Name:      "misses_total",
			Help:      "Number of ACL cache lookups that found nothing.",
		}),
		stores: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis",
			Subsystem: "acl_cache",
			Name:      "stores_total",
			Help:      "Number of ACL entries written to the cache.",
		}),
		evicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis",
			Subsystem: "acl_cache",
			Name:      "evictions_total",
			Help:      "Number of ACL entries evicted from the cache.",
		}),
		clears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis",
			Subsystem: "acl_cache",
			Name:      "clears_total",
			Help:      "Number of full cache clears.",
		}),
	}
	reg.MustRegister(m.hits, m.misses, m.stores, m.evicts, m.clears)
	return m
}

func (m *PrometheusMetrics) Hit()     { m.hits.Inc() }
func (m *PrometheusMetrics) Miss()    { m.misses.Inc() }
func (m *PrometheusMetrics) Stored()  { m.stores.Inc() }
func (m *PrometheusMetrics) Evicted() { m.evicts.Inc() }
func (m *PrometheusMetrics) Cleared() { m.clears.Inc() }

var _ aclcache.Metrics = (*PrometheusMetrics)(nil)
