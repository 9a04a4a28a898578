// internal/inventory/metrics.go
package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autogestor_status_transitions_total",
		Help: "Completed vehicle status transitions by operation.",
	}, []string{"operation"})

	transitionRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autogestor_transition_rejections_total",
		Help: "Rejected transition attempts by reason.",
	}, []string{"reason"})

	casConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autogestor_cas_conflicts_total",
		Help: "Compare-and-set writes that lost a race on vehicle status.",
	})
)
