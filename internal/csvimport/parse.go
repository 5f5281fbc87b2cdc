package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
)

// Canonical column names.
const (
	colPlayerID         = "player_id"
	colTeamID           = "team_id"
	colGamesPlayed      = "games_played"
	colGoals            = "goals"
	colAssists          = "assists"
	colPlusMinus        = "plus_minus"
	colPIM              = "pim"
	colShots            = "shots"
	colHits             = "hits"
	colBlockedShots     = "blocked_shots"
	colTakeaways        = "takeaways"
	colGiveaways        = "giveaways"
	colPowerPlayGoals   = "power_play_goals"
	colShortHandedGoals = "short_handed_goals"
	colGameWinningGoals = "game_winning_goals"
	colFaceoffsWon      = "faceoffs_won"
	colFaceoffsLost     = "faceoffs_lost"
	colTOISeconds       = "toi_seconds"
	colWins             = "wins"
	colLosses           = "losses"
	colOvertimeLosses   = "overtime_losses"
	colShotsAgainst     = "shots_against"
	colSaves            = "saves"
	colGoalsAgainst     = "goals_against"
	colShutouts         = "shutouts"
)

// aliases maps normalized header spellings to canonical columns.
var aliases = map[string]string{
	"playerid": colPlayerID,
	"teamid": colTeamID,
	"gp": colGamesPlayed, "games": colGamesPlayed, "gamesplayed": colGamesPlayed,
	"g": colGoals, "goals": colGoals,
	"a": colAssists, "assists": colAssists,
	"plusminus": colPlusMinus, "pm": colPlusMinus,
	"pim": colPIM, "penaltyminutes": colPIM,
	"s": colShots, "sog": colShots, "shots": colShots,
	"hits": colHits, "hit": colHits,
	"bs": colBlockedShots, "blk": colBlockedShots, "blocks": colBlockedShots, "blockedshots": colBlockedShots,
	"tk": colTakeaways, "takeaways": colTakeaways,
	"gv": colGiveaways, "giveaways": colGiveaways,
	"ppg": colPowerPlayGoals, "powerplaygoals": colPowerPlayGoals,
	"shg": colShortHandedGoals, "shorthandedgoals": colShortHandedGoals,
	"gwg": colGameWinningGoals, "gamewinninggoals": colGameWinningGoals,
	"fow": colFaceoffsWon, "faceoffswon": colFaceoffsWon,
	"fol": colFaceoffsLost, "faceoffslost": colFaceoffsLost,
	"toi": colTOISeconds, "toiseconds": colTOISeconds, "timeonice": colTOISeconds,
	"w": colWins, "wins": colWins,
	"l": colLosses, "losses": colLosses,
	"otl": colOvertimeLosses, "overtimelosses": colOvertimeLosses,
	"sa": colShotsAgainst, "shotsagainst": colShotsAgainst,
	"sv": colSaves, "saves": colSaves,
	"ga": colGoalsAgainst, "goalsagainst": colGoalsAgainst,
	"so": colShutouts, "shutouts": colShutouts,
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Column returns the canonical column for a header cell, or "" if it is not recognised.
func Column(header string) string {
	h := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
	h = strings.ReplaceAll(h, "+/-", "plusminus")
	return aliases[nonAlnum.ReplaceAllString(h, "")]
}

// Row is one parsed data line.
type Row struct {
	Line     int
	PlayerID string
	TeamID   string
	Skater   stats.SkaterCounts
	Goalie   stats.GoalieCounts
}

// Skip records a line that was not imported.
type Skip struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Parse reads a header row followed by stat rows. Rows without a player id are
// returned as skips; blank rows are ignored.
func Parse(r io.Reader, kind stats.Kind) ([]Row, []Skip, error) {
	if !kind.Valid() {
		return nil, nil, league.Validationf("unknown stat kind %q", kind)
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, league.Validationf("csv is empty")
	}
	if err != nil {
		return nil, nil, league.Validationf("failed to read csv header: %v", err)
	}
	columns := make([]string, len(header))
	hasPlayer := false
	for i, h := range header {
		columns[i] = Column(h)
		hasPlayer = hasPlayer || columns[i] == colPlayerID
	}
	if !hasPlayer {
		return nil, nil, league.Validationf("csv header has no player_id column")
	}

	rows := []Row{}
	skips := []Skip{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, league.Validationf("malformed csv: %v", err)
		}
		line, _ := reader.FieldPos(0)
		if blank(record) {
			continue
		}

		values := map[string]string{}
		for i, cell := range record {
			if i < len(columns) && columns[i] != "" {
				values[columns[i]] = strings.TrimSpace(cell)
			}
		}
		if values[colPlayerID] == "" {
			skips = append(skips, Skip{Line: line, Reason: "missing player_id"})
			continue
		}
		rows = append(rows, buildRow(line, values, kind))
	}
	return rows, skips, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func buildRow(line int, v map[string]string, kind stats.Kind) Row {
	row := Row{Line: line, PlayerID: v[colPlayerID], TeamID: v[colTeamID]}
	if kind == stats.KindGoalie {
		row.Goalie = stats.GoalieCounts{
			GamesPlayed:    number(v[colGamesPlayed]),
			Wins:           number(v[colWins]),
			Losses:         number(v[colLosses]),
			OvertimeLosses: number(v[colOvertimeLosses]),
			ShotsAgainst:   number(v[colShotsAgainst]),
			Saves:          number(v[colSaves]),
			GoalsAgainst:   number(v[colGoalsAgainst]),
			Shutouts:       number(v[colShutouts]),
			TOISeconds:     seconds(v[colTOISeconds]),
		}
		return row
	}
	row.Skater = stats.SkaterCounts{
		GamesPlayed:      number(v[colGamesPlayed]),
		Goals:            number(v[colGoals]),
		Assists:          number(v[colAssists]),
		PlusMinus:        number(v[colPlusMinus]),
		PIM:              number(v[colPIM]),
		Shots:            number(v[colShots]),
		Hits:             number(v[colHits]),
		BlockedShots:     number(v[colBlockedShots]),
		Takeaways:        number(v[colTakeaways]),
		Giveaways:        number(v[colGiveaways]),
		PowerPlayGoals:   number(v[colPowerPlayGoals]),
		ShortHandedGoals: number(v[colShortHandedGoals]),
		GameWinningGoals: number(v[colGameWinningGoals]),
		FaceoffsWon:      number(v[colFaceoffsWon]),
		FaceoffsLost:     number(v[colFaceoffsLost]),
		TOISeconds:       seconds(v[colTOISeconds]),
	}
	return row
}

// number coerces a cell to an int, truncating decimals. Anything unparsable is zero.
func number(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// seconds accepts plain seconds or mm:ss / hh:mm:ss.
func seconds(s string) int {
	if !strings.Contains(s, ":") {
		return number(s)
	}
	total := 0
	for _, part := range strings.Split(s, ":") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}

func (s Skip) String() string {
	return fmt.Sprintf("line %d: %s", s.Line, s.Reason)
}
