package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Results reported by ContributionsCounter.
const (
	ResultAccepted  = "accepted"
	ResultDuplicate = "duplicate"
	ResultRejected  = "rejected"
)

var (
	registerOnce  sync.Once
	contributions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phe",
			Subsystem: "aggregate",
			Name:      "contributions_total",
			Help:      "Count of submitted contributions classified by result",
		},
		[]string{"result"},
	)

	foldSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "phe",
			Subsystem: "aggregate",
			Name:      "fold_seconds",
			Help:      "Time spent folding contributions into a total",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	openSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "phe",
			Subsystem: "aggregate",
			Name:      "open_sessions",
			Help:      "Number of aggregation sessions accepting contributions",
		},
	)
)

func ensureRegistered() {
	registerOnce.Do(func() {
		prometheus.MustRegister(contributions, foldSeconds, openSessions)
	})
}

func ContributionsCounter() *prometheus.CounterVec {
	ensureRegistered()
	return contributions
}

func FoldObserver() prometheus.Observer {
	ensureRegistered()
	return foldSeconds
}

func OpenSessions() prometheus.Gauge {
	ensureRegistered()
	return openSessions
}
