package metrics

import (
	"context"
	"testing"

	"github.com/mauv0809/pro-clubs-league/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCounters(t *testing.T) MetricsStore {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return NewCounterStore(db)
}

func TestCountersStartAtZero(t *testing.T) {
	store := newTestCounters(t)

	counters, err := store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		CounterSyncRuns:        0,
		CounterMatchesIngested: 0,
		CounterCSVImported:     0,
		CounterCSVSkipped:      0,
	}, counters)
}

func TestCountersAccumulate(t *testing.T) {
	store := newTestCounters(t)
	ctx := context.Background()

	store.Add(ctx, CounterSyncRuns, 1)
	store.Add(ctx, CounterSyncRuns, 1)
	store.Add(ctx, CounterCSVImported, 12)
	store.Add(ctx, CounterCSVSkipped, 0)
	store.Add(ctx, "discord_role_syncs", 3)

	counters, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counters[CounterSyncRuns])
	assert.Equal(t, 12, counters[CounterCSVImported])
	assert.Equal(t, 0, counters[CounterCSVSkipped])
	assert.Equal(t, 3, counters["discord_role_syncs"], "ad hoc keys are reported too")
}
