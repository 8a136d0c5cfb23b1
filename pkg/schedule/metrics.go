package schedule

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type schedulerMetrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
}

var schedulerMetricsSingleton = sync.OnceValue(func() *schedulerMetrics {
	return &schedulerMetrics{
		runsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sweeps",
			Name:      "runs_total",
			Help:      "Total number of sweep job runs.",
		}, []string{"job", "result"}),
		runDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sweeps",
			Name:      "run_duration_seconds",
			Help:      "Duration distribution of sweep job runs.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"job"}),
	}
})

func getSchedulerMetrics() *schedulerMetrics {
	return schedulerMetricsSingleton()
}
