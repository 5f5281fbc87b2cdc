package metrics

import "context"

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSyncRuns()
	AddMatchesIngested(n int)
	ObserveSyncDuration(seconds float64)
	AddCSVRows(imported, skipped int)
	IncNotifSent(channel string)
	IncNotifFailed(channel string)
	SetStartupTime(duration float64)
}

// MetricsStore keeps counters that survive restarts.
type MetricsStore interface {
	Add(ctx context.Context, key string, delta int)
	GetAll(ctx context.Context) (map[string]int, error)
}

// Keys used with MetricsStore.
const (
	CounterSyncRuns        = "ea_sync_runs"
	CounterMatchesIngested = "ea_matches_ingested"
	CounterCSVImported     = "csv_rows_imported"
	CounterCSVSkipped      = "csv_rows_skipped"
)
