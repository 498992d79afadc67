package supply

import "github.com/prometheus/client_golang/prometheus"

var (
	refillsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framed",
			Subsystem: "supply",
			Name:      "refills_total",
			Help:      "Total refill fetches issued per pool and mode",
		},
		[]string{"pool", "mode"},
	)

	refillErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framed",
			Subsystem: "supply",
			Name:      "refill_errors_total",
			Help:      "Total refill fetches that failed per pool",
		},
		[]string{"pool"},
	)

	discardedAssets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framed",
			Subsystem: "supply",
			Name:      "assets_discarded_total",
			Help:      "Fetched assets discarded because the queue filled up",
		},
		[]string{"pool"},
	)

	queueLength = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "framed",
			Subsystem: "supply",
			Name:      "queue_length",
			Help:      "Current prefetch queue length per pool",
		},
		[]string{"pool"},
	)

	drawsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framed",
			Subsystem: "supply",
			Name:      "draws_total",
			Help:      "Weighted draws per account and outcome (asset or empty)",
		},
		[]string{"account", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(refillsTotal, refillErrors, discardedAssets, queueLength, drawsTotal)
}
