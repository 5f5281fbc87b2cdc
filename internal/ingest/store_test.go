package ingest_test

import (
	"context"
	"testing"

	"github.com/mauv0809/pro-clubs-league/internal/database"
	"github.com/mauv0809/pro-clubs-league/internal/ea"
	"github.com/mauv0809/pro-clubs-league/internal/ingest"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReplacesMatchRows(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()
	ctx := context.Background()
	s := ingest.NewStore(db)

	rec, err := ea.Normalize(sampleRaw())
	require.NoError(t, err)
	require.NoError(t, s.SaveMatch(ctx, rec, nil, nil))

	lines, err := s.ListPlayerLines(ctx, "9001")
	require.NoError(t, err)
	assert.Len(t, lines, 3)

	rec.Players = rec.Players[:1]
	require.NoError(t, s.SaveMatch(ctx, rec, []byte(`{}`), nil))
	lines, err = s.ListPlayerLines(ctx, "9001")
	require.NoError(t, err)
	assert.Len(t, lines, 1, "player rows are replaced per match")

	matches, err := s.ListMatches(ctx, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(1700000000), matches[0].PlayedAt)
	assert.Empty(t, matches[0].LinkedMatchID)

	err = s.LinkMatch(ctx, "nope", "m1")
	assert.ErrorIs(t, err, league.ErrNotFound)

	_, err = s.GetMatch(ctx, "nope")
	assert.ErrorIs(t, err, league.ErrNotFound)
}

func TestStoreRejectsUnknownPlayer(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()
	ctx := context.Background()
	s := ingest.NewStore(db)

	rec, err := ea.Normalize(sampleRaw())
	require.NoError(t, err)
	err = s.SaveMatch(ctx, rec, nil, map[string]string{"1001": "ghost"})
	assert.ErrorIs(t, err, league.ErrValidation)

	_, err = s.GetMatch(ctx, "9001")
	assert.ErrorIs(t, err, league.ErrNotFound, "the failed save rolls back")
}
