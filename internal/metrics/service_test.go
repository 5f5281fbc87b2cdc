package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceExposesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncSyncRuns()
	s.AddMatchesIngested(3)
	s.AddCSVRows(5, 2)
	s.IncNotifSent("discord")
	s.IncNotifFailed("slack")
	s.ObserveSyncDuration(0.2)
	s.SetStartupTime(1.5)

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	raw, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, "league_ea_sync_runs_total 1")
	assert.Contains(t, body, "league_ea_matches_ingested_total 3")
	assert.Contains(t, body, `league_csv_rows_total{outcome="imported"} 5`)
	assert.Contains(t, body, `league_csv_rows_total{outcome="skipped"} 2`)
	assert.Contains(t, body, `league_notifications_sent_total{channel="discord"} 1`)
	assert.Contains(t, body, `league_notifications_failed_total{channel="slack"} 1`)
	assert.Contains(t, body, "league_ea_sync_duration_seconds_count 1")
	assert.Contains(t, body, "league_startup_duration_seconds 1.5")
}
