// Package metrics holds the schema orchestration metrics. They register on the
// default Prometheus registry, which the server exposes at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "schooldb"

var (
	relationshipsApplied = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "relationships_applied",
		Help:      "Relationships applied to the live entity descriptors.",
	})

	relationshipsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "relationships_total",
		Help:      "Relationships registered by feature modules.",
	})

	syncEntities = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schema_sync_entities_total",
		Help:      "Entities processed by schema synchronization, by final state.",
	}, []string{"state"})
)

// ObserveRelationships records the outcome of a relationship application pass.
func ObserveRelationships(applied, total int) {
	relationshipsApplied.Set(float64(applied))
	relationshipsTotal.Set(float64(total))
}

// ObserveSyncState counts one entity reaching a final synchronization state.
func ObserveSyncState(state string) {
	syncEntities.WithLabelValues(state).Inc()
}
