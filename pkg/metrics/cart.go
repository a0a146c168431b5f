package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation and storage recovery events. A nil
// registerer yields a no-op instance.
type CartMetrics struct {
	mutations       *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	corruptRecords  prometheus.Counter
	namespaceSwaps  prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Cart persistence attempts that failed, by operation.",
	}, []string{"op"})
	corruptRecords := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_corrupt_records_total",
		Help: "Stored records discarded because they failed to parse.",
	})
	namespaceSwaps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "session_namespace_swaps_total",
		Help: "Cart namespace switches driven by identity changes.",
	})
	reg.MustRegister(mutations, persistFailures, corruptRecords, namespaceSwaps)
	return &CartMetrics{
		mutations:       mutations,
		persistFailures: persistFailures,
		corruptRecords:  corruptRecords,
		namespaceSwaps:  namespaceSwaps,
	}
}

// IncMutation increments the mutation counter for the named operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPersistFailure increments the persistence failure counter for the named operation.
func (c *CartMetrics) IncPersistFailure(op string) {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCorruptRecord increments the discarded-record counter.
func (c *CartMetrics) IncCorruptRecord() {
	if c == nil || c.corruptRecords == nil {
		return
	}
	c.corruptRecords.Inc()
}

// IncNamespaceSwap increments the namespace switch counter.
func (c *CartMetrics) IncNamespaceSwap() {
	if c == nil || c.namespaceSwaps == nil {
		return
	}
	c.namespaceSwaps.Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
