// api/aclcache/metrics.go
package aclcache

// Metrics receives the adapter's observability signals. Implementations
// must be safe for concurrent use. The metrics package provides a
// Prometheus-backed implementation.
type Metrics interface {
	Hit()
	Miss()
	Stored()
	Evicted()
	Cleared()
}

// NoopMetrics discards every signal.
type NoopMetrics struct{}

func (NoopMetrics) Hit()     {}
func (NoopMetrics) Miss()    {}
func (NoopMetrics) Stored()  {}
func (NoopMetrics) Evicted() {}
func (NoopMetrics) Cleared() {}

var _ Metrics = NoopMetrics{}
