package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mpesa",
		Subsystem: "jobs",
		Name:      "submitted_total",
		Help:      "Statement extraction jobs accepted.",
	})
	jobsSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mpesa",
		Subsystem: "jobs",
		Name:      "succeeded_total",
		Help:      "Statement extraction jobs that produced a transaction list.",
	})
	jobsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mpesa",
		Subsystem: "jobs",
		Name:      "failed_total",
		Help:      "Statement extraction jobs that aborted, by failure kind.",
	}, []string{"kind"})
	pagesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mpesa",
		Subsystem: "jobs",
		Name:      "pages_processed_total",
		Help:      "Statement pages sanitized and assembled.",
	})
	workersBusy = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mpesa",
		Subsystem: "jobs",
		Name:      "workers_busy",
		Help:      "Workers currently running an extraction.",
	})
)
