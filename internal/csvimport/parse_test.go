package csvimport

import (
	"strings"
	"testing"

	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumn(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"player_id", colPlayerID},
		{"Player ID", colPlayerID},
		{"\ufeffplayerId", colPlayerID},
		{"G", colGoals},
		{"goals", colGoals},
		{" Goals ", colGoals},
		{"+/-", colPlusMinus},
		{"Plus-Minus", colPlusMinus},
		{"SV", colSaves},
		{"Shots Against", colShotsAgainst},
		{"TOI", colTOISeconds},
		{"Gamer Tag", ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, Column(tt.header))
		})
	}
}

func TestParseSkaters(t *testing.T) {
	input := "Player ID,Gamer Tag,GP,G,A,+/-,TOI\n" +
		"p1,Sniper,10,7,3,-2,12:30\n" +
		"\n" +
		",,,,,,\n" +
		",Nobody,1,1,1,0,0\n" +
		"p2,Grinder,abc,2.9,,1\n"

	rows, skips, err := Parse(strings.NewReader(input), stats.KindSkater)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "p1", rows[0].PlayerID)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, stats.SkaterCounts{GamesPlayed: 10, Goals: 7, Assists: 3, PlusMinus: -2, TOISeconds: 750}, rows[0].Skater)

	assert.Equal(t, 0, rows[1].Skater.GamesPlayed, "unparsable numbers fall back to zero")
	assert.Equal(t, 2, rows[1].Skater.Goals)

	require.Len(t, skips, 1)
	assert.Equal(t, Skip{Line: 5, Reason: "missing player_id"}, skips[0])
	assert.Equal(t, "line 5: missing player_id", skips[0].String())
}

func TestParseGoalies(t *testing.T) {
	input := "player_id,team_id,GP,W,L,OTL,SA,SV,GA,SO\np9,t1,3,2,1,0,90,84,6,1\n"
	rows, skips, err := Parse(strings.NewReader(input), stats.KindGoalie)
	require.NoError(t, err)
	assert.Empty(t, skips)
	require.Len(t, rows, 1)
	assert.Equal(t, "t1", rows[0].TeamID)
	assert.Equal(t, stats.GoalieCounts{GamesPlayed: 3, Wins: 2, Losses: 1, ShotsAgainst: 90, Saves: 84, GoalsAgainst: 6, Shutouts: 1}, rows[0].Goalie)
}

func TestParseErrors(t *testing.T) {
	_, _, err := Parse(strings.NewReader(""), stats.KindSkater)
	assert.ErrorIs(t, err, league.ErrValidation)

	_, _, err = Parse(strings.NewReader("name,goals\nx,1\n"), stats.KindSkater)
	assert.ErrorIs(t, err, league.ErrValidation)

	_, _, err = Parse(strings.NewReader("player_id\np1\n"), stats.Kind("coach"))
	assert.ErrorIs(t, err, league.ErrValidation)

	_, _, err = Parse(strings.NewReader("player_id,g\n\"p1,1\n"), stats.KindSkater)
	assert.ErrorIs(t, err, league.ErrValidation)
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 90, seconds("90"))
	assert.Equal(t, 754, seconds("12:34"))
	assert.Equal(t, 3723, seconds("1:02:03"))
	assert.Equal(t, 0, seconds("1:xx"))
}
