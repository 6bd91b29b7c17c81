package index

import "github.com/prometheus/client_golang/prometheus"

var (
	registeredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "implidx",
			Subsystem: "index",
			Name:      "registered_total",
			Help:      "Total registrations consumed by the index",
		},
	)

	componentsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "implidx",
			Subsystem: "index",
			Name:      "components",
			Help:      "Number of components currently in the index",
		},
	)
)

func init() {
	prometheus.MustRegister(registeredTotal, componentsGauge)
}
