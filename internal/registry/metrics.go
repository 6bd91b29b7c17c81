package registry

import "github.com/prometheus/client_golang/prometheus"

var (
	publishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "implidx",
			Subsystem: "registry",
			Name:      "publish_total",
			Help:      "Total publishes by handoff mode (direct or deferred)",
		},
		[]string{"mode"},
	)

	pendingGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "implidx",
			Subsystem: "registry",
			Name:      "pending",
			Help:      "Whether a map is parked in the pending slot (0 or 1)",
		},
	)
)

func init() {
	prometheus.MustRegister(publishTotal, pendingGauge)
}
