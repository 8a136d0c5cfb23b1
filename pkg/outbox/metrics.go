package outbox

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "outbox"

// Dispatch latency is dominated by the notification fanout, so the buckets
// stretch from sub-millisecond enqueues to multi-second delivery rounds.
var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10,
}

type metrics struct {
	enqueueTotal  *prometheus.CounterVec
	dispatchTotal *prometheus.CounterVec
	deadTotal     *prometheus.CounterVec

	dispatchLatency *prometheus.HistogramVec

	pending     *prometheus.GaugeVec
	locked      *prometheus.GaugeVec
	relayLeader *prometheus.GaugeVec
}

func counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      name,
		Help:      help,
	}, labels)
}

func gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      name,
		Help:      help,
	}, labels)
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		enqueueTotal: counterVec("enqueue_total",
			"Events enqueued into the outbox table.",
			"table", "topic"),
		dispatchTotal: counterVec("dispatch_total",
			"Relay dispatch attempts by outcome.",
			"table", "topic", "result"),
		deadTotal: counterVec("dead_total",
			"Events parked as dead after exhausting their attempts.",
			"table", "topic"),
		dispatchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "dispatch_latency_seconds",
			Help:      "Time spent dispatching one event to its handler.",
			Buckets:   latencyBuckets,
		}, []string{"table", "topic", "result"}),
		pending: gaugeVec("pending",
			"Events waiting to be picked up by the relay.",
			"table"),
		locked: gaugeVec("locked",
			"Events currently locked by a relay batch.",
			"table"),
		relayLeader: gaugeVec("relay_leader",
			"1 while this instance holds the single-active relay lock.",
			"table"),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}
