package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SyncRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_ea_sync_runs_total",
			Help: "The total number of EA club syncs started.",
		}),
		MatchesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_ea_matches_ingested_total",
			Help: "The total number of EA matches stored.",
		}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "league_ea_sync_duration_seconds",
			Help:    "The duration of a single club sync.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CSVRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_csv_rows_total",
			Help: "CSV stat rows handled by the importer, by outcome.",
		}, []string{"outcome"}),
		NotifSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}, []string{"channel"}),
		NotifFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}, []string{"channel"}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SyncRuns,
		s.MatchesIngested,
		s.SyncDuration,
		s.CSVRows,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSyncRuns() {
	s.SyncRuns.Inc()
}

func (s *Service) AddMatchesIngested(n int) {
	s.MatchesIngested.Add(float64(n))
}

func (s *Service) ObserveSyncDuration(seconds float64) {
	s.SyncDuration.Observe(seconds)
}

func (s *Service) AddCSVRows(imported, skipped int) {
	s.CSVRows.WithLabelValues("imported").Add(float64(imported))
	s.CSVRows.WithLabelValues("skipped").Add(float64(skipped))
}

func (s *Service) IncNotifSent(channel string) {
	s.NotifSent.WithLabelValues(channel).Inc()
}

func (s *Service) IncNotifFailed(channel string) {
	s.NotifFailed.WithLabelValues(channel).Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
