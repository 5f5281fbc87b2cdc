package ea

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPosition(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0", PositionGoalie},
		{"1", PositionRightDefense},
		{"2", PositionLeftDefense},
		{"3", PositionRightWing},
		{"4", PositionLeftWing},
		{"5", PositionCenter},
		{"goalie", PositionGoalie},
		{"center", PositionCenter},
		{"leftWing", PositionLeftWing},
		{"rightWing", PositionRightWing},
		{"defenseMen", PositionDefense},
		{"leftDefense", PositionLeftDefense},
		{"rightDefense", PositionRightDefense},
		{" LW ", PositionLeftWing},
		{"Left Defenceman Def", PositionLeftDefense},
		{"right-wing forward", PositionRightWing},
		{"Goalkeeper", PositionGoalie},
		{"Centerman", PositionCenter},
		{"wing", PositionUnknown},
		{"9", PositionUnknown},
		{"", PositionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, MapPosition(tt.raw))
		})
	}
}

func decodeSample(t *testing.T) RawMatch {
	t.Helper()
	var entries []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(sampleMatchesJSON), &entries))
	var m RawMatch
	require.NoError(t, json.Unmarshal(entries[0], &m))
	return m
}

func TestNormalize(t *testing.T) {
	rec, err := Normalize(decodeSample(t))
	require.NoError(t, err)

	assert.Equal(t, "9001", rec.EAMatchID)
	assert.Equal(t, int64(1700000000), rec.PlayedAt)
	assert.True(t, rec.Overtime)

	assert.Equal(t, "111", rec.Home.ClubID, "teamSide 0 is the home club")
	assert.Equal(t, "Hosts", rec.Home.ClubName)
	assert.Equal(t, ResultWin, rec.Home.Result)
	assert.Equal(t, 3, rec.Home.Goals)
	assert.Equal(t, 2, rec.Home.GoalsAgainst)
	assert.Equal(t, 25, rec.Home.Shots)
	assert.Equal(t, 3, rec.Home.Hits, "hits fall back to the players' sum")
	assert.Equal(t, 10, rec.Home.FaceoffsWon)
	assert.Equal(t, 1, rec.Home.PowerPlayGoals)
	assert.Equal(t, 3, rec.Home.PowerPlayOpportunities)
	assert.Equal(t, 500, rec.Home.TimeOnAttackSeconds)

	assert.Equal(t, "222", rec.Away.ClubID)
	assert.Equal(t, ResultOvertimeLoss, rec.Away.Result)
	assert.Equal(t, 7, rec.Away.Hits)

	require.Len(t, rec.Players, 4)
	sniper := rec.Players[0]
	assert.Equal(t, "1001", sniper.EAPlayerID)
	assert.Equal(t, "Sniper", sniper.Name)
	assert.Equal(t, PositionCenter, sniper.Position)
	assert.Equal(t, ResultWin, sniper.Result)
	assert.Equal(t, 2, sniper.Goals)
	assert.Equal(t, 5, sniper.FaceoffsLost)

	wall := rec.Players[1]
	assert.True(t, wall.IsGoalie())
	assert.Equal(t, 18, wall.Saves)
	assert.Equal(t, 20, wall.ShotsAgainst)
	assert.InDelta(t, 0.9, wall.SavePct, 0.0001)

	assert.Equal(t, PositionDefense, rec.Players[2].Position)
	assert.Equal(t, ResultOvertimeLoss, rec.Players[2].Result)
	assert.Equal(t, PositionRightWing, rec.Players[3].Position, "empty position falls back to posSorted")
	assert.Zero(t, rec.Players[3].PlusMinus)

	team, ok := rec.Team("222")
	require.True(t, ok)
	assert.Equal(t, "Visitors", team.ClubName)
	_, ok = rec.Team("999")
	assert.False(t, ok)
}

func TestNormalizeRegulation(t *testing.T) {
	raw := RawMatch{
		MatchID:   "1",
		Timestamp: "1700000000",
		Clubs: map[string]RawClub{
			"b": {Stats: map[string]Value{"score": "1", "opponentScore": "4", "result": "2"}},
			"a": {Stats: map[string]Value{"score": "4", "opponentScore": "1", "result": "1"}},
		},
		Players: map[string]map[string]RawPlayer{
			"a": {"p1": {"position": "goalie", "glsaves": "12", "glshots": "5", "glga": "1", "toiseconds": "3600"}},
		},
	}
	rec, err := Normalize(raw)
	require.NoError(t, err)
	assert.False(t, rec.Overtime)
	assert.Equal(t, "a", rec.Home.ClubID, "club id order without teamSide")
	assert.Equal(t, ResultLoss, rec.Away.Result)

	require.Len(t, rec.Players, 1)
	g := rec.Players[0]
	assert.Equal(t, 13, g.ShotsAgainst, "shots against never trail saves")
	assert.InDelta(t, 12.0/13.0, g.SavePct, 0.0001)
}

func TestNormalizeTiedScoreUsesResultCode(t *testing.T) {
	raw := RawMatch{
		MatchID: "2",
		Clubs: map[string]RawClub{
			"a": {Stats: map[string]Value{"score": "2", "opponentScore": "2", "result": "2", "teamSide": "0"}},
			"b": {Stats: map[string]Value{"score": "2", "opponentScore": "2", "result": "1", "teamSide": "1"}},
		},
	}
	rec, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, ResultLoss, rec.Home.Result)
	assert.Equal(t, ResultWin, rec.Away.Result)
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	_, err := Normalize(RawMatch{Clubs: map[string]RawClub{"a": {}, "b": {}}})
	assert.Error(t, err)

	_, err = Normalize(RawMatch{MatchID: "3", Clubs: map[string]RawClub{"a": {}}})
	assert.Error(t, err)
}

func TestValueCoercion(t *testing.T) {
	assert.Equal(t, 7, Value("7").Int())
	assert.Equal(t, 7, Value("7.9").Int())
	assert.Equal(t, 0, Value("abc").Int())
	assert.Equal(t, 0, Value("").Int())
	assert.Equal(t, 0.5, Value("0.5").Float())

	var v Value
	require.NoError(t, json.Unmarshal([]byte(`12`), &v))
	assert.Equal(t, "12", v.String())
	require.NoError(t, json.Unmarshal([]byte(`{"nested": 1}`), &v))
	assert.Empty(t, v.String())
}
