package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	SyncRuns           prometheus.Counter
	MatchesIngested    prometheus.Counter
	SyncDuration       prometheus.Histogram
	CSVRows            *prometheus.CounterVec
	NotifSent          *prometheus.CounterVec
	NotifFailed        *prometheus.CounterVec
	StartupTimeSeconds prometheus.Gauge
}
