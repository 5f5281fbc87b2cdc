package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiFansOut(t *testing.T) {
	a, b := NewMock(), NewMock()
	b.SendSyncSummaryFunc = func(summary SyncSummary, dryRun bool) error {
		return errors.New("slack down")
	}
	m := Multi{a, b}
	ctx := context.Background()

	require.NoError(t, m.SendMatchResult(ctx, MatchResult{HomeTeam: "Hawks"}, false))
	assert.Len(t, a.SendMatchResultCalls, 1)
	assert.Len(t, b.SendMatchResultCalls, 1)

	err := m.SendSyncSummary(ctx, SyncSummary{Clubs: 2}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack down")
	require.Len(t, a.SendSyncSummaryCalls, 1, "a failing notifier does not stop the others")
	assert.True(t, a.SendSyncSummaryCalls[0].DryRun)

	require.NoError(t, m.SendImportSummary(ctx, ImportSummary{Imported: 3}, false))
	assert.Equal(t, 3, b.SendImportSummaryCalls[0].Summary.Imported)
}

func TestMatchResultWinner(t *testing.T) {
	r := MatchResult{HomeTeam: "Hawks", AwayTeam: "Wolves", HomeScore: 2, AwayScore: 3}
	assert.Equal(t, "Wolves", r.Winner())
	r.HomeScore = 4
	assert.Equal(t, "Hawks", r.Winner())
	r.HomeScore = 3
	assert.Empty(t, r.Winner())
}
