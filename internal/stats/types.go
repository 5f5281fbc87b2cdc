package stats

import (
	"database/sql"
	"sync"
	"time"
)

// store handles season stat persistence.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// SkaterCounts are the summable skater columns.
type SkaterCounts struct {
	GamesPlayed      int `json:"games_played"`
	Goals            int `json:"goals"`
	Assists          int `json:"assists"`
	PlusMinus        int `json:"plus_minus"`
	PIM              int `json:"pim"`
	Shots            int `json:"shots"`
	Hits             int `json:"hits"`
	BlockedShots     int `json:"blocked_shots"`
	Takeaways        int `json:"takeaways"`
	Giveaways        int `json:"giveaways"`
	PowerPlayGoals   int `json:"power_play_goals"`
	ShortHandedGoals int `json:"short_handed_goals"`
	GameWinningGoals int `json:"game_winning_goals"`
	FaceoffsWon      int `json:"faceoffs_won"`
	FaceoffsLost     int `json:"faceoffs_lost"`
	TOISeconds       int `json:"toi_seconds"`
}

func (c *SkaterCounts) add(o SkaterCounts) {
	c.GamesPlayed += o.GamesPlayed
	c.Goals += o.Goals
	c.Assists += o.Assists
	c.PlusMinus += o.PlusMinus
	c.PIM += o.PIM
	c.Shots += o.Shots
	c.Hits += o.Hits
	c.BlockedShots += o.BlockedShots
	c.Takeaways += o.Takeaways
	c.Giveaways += o.Giveaways
	c.PowerPlayGoals += o.PowerPlayGoals
	c.ShortHandedGoals += o.ShortHandedGoals
	c.GameWinningGoals += o.GameWinningGoals
	c.FaceoffsWon += o.FaceoffsWon
	c.FaceoffsLost += o.FaceoffsLost
	c.TOISeconds += o.TOISeconds
}

// SkaterLine is one player's skater stats for a season (or a single match during a rebuild).
type SkaterLine struct {
	PlayerID string `json:"player_id"`
	SeasonID string `json:"season_id"`
	TeamID   string `json:"team_id,omitempty"`
	GamerTag string `json:"gamer_tag,omitempty"`
	TeamName string `json:"team_name,omitempty"`
	SkaterCounts
	Points    int   `json:"points"`
	UpdatedAt int64 `json:"updated_at"`
}

// SkaterTotals are summed skater counts with derived display fields.
type SkaterTotals struct {
	SkaterCounts
	Points        int     `json:"points"`
	PointsPerGame float64 `json:"points_per_game"`
	ShootingPct   float64 `json:"shooting_pct"`
	FaceoffPct    float64 `json:"faceoff_pct"`
}

// SkaterRow is a season line as served to clients.
type SkaterRow struct {
	PlayerID string `json:"player_id"`
	SeasonID string `json:"season_id"`
	TeamID   string `json:"team_id,omitempty"`
	GamerTag string `json:"gamer_tag,omitempty"`
	TeamName string `json:"team_name,omitempty"`
	SkaterTotals
}

// Row attaches the derived fields to a single line.
func (l SkaterLine) Row() SkaterRow {
	return SkaterRow{
		PlayerID:     l.PlayerID,
		SeasonID:     l.SeasonID,
		TeamID:       l.TeamID,
		GamerTag:     l.GamerTag,
		TeamName:     l.TeamName,
		SkaterTotals: SumSkaters([]SkaterLine{l}),
	}
}

// GoalieCounts are the summable goalie columns.
type GoalieCounts struct {
	GamesPlayed    int `json:"games_played"`
	Wins           int `json:"wins"`
	Losses         int `json:"losses"`
	OvertimeLosses int `json:"overtime_losses"`
	ShotsAgainst   int `json:"shots_against"`
	Saves          int `json:"saves"`
	GoalsAgainst   int `json:"goals_against"`
	Shutouts       int `json:"shutouts"`
	TOISeconds     int `json:"toi_seconds"`
}

func (c *GoalieCounts) add(o GoalieCounts) {
	c.GamesPlayed += o.GamesPlayed
	c.Wins += o.Wins
	c.Losses += o.Losses
	c.OvertimeLosses += o.OvertimeLosses
	c.ShotsAgainst += o.ShotsAgainst
	c.Saves += o.Saves
	c.GoalsAgainst += o.GoalsAgainst
	c.Shutouts += o.Shutouts
	c.TOISeconds += o.TOISeconds
}

// GoalieLine is one player's goalie stats for a season.
type GoalieLine struct {
	PlayerID string `json:"player_id"`
	SeasonID string `json:"season_id"`
	TeamID   string `json:"team_id,omitempty"`
	GamerTag string `json:"gamer_tag,omitempty"`
	TeamName string `json:"team_name,omitempty"`
	GoalieCounts
	UpdatedAt int64 `json:"updated_at"`
}

// GoalieTotals are summed goalie counts with derived display fields.
type GoalieTotals struct {
	GoalieCounts
	SavePct float64 `json:"save_pct"`
	GAA     float64 `json:"gaa"`
	WinPct  float64 `json:"win_pct"`
}

// GoalieRow is a season line as served to clients.
type GoalieRow struct {
	PlayerID string `json:"player_id"`
	SeasonID string `json:"season_id"`
	TeamID   string `json:"team_id,omitempty"`
	GamerTag string `json:"gamer_tag,omitempty"`
	TeamName string `json:"team_name,omitempty"`
	GoalieTotals
}

func (l GoalieLine) Row() GoalieRow {
	return GoalieRow{
		PlayerID:     l.PlayerID,
		SeasonID:     l.SeasonID,
		TeamID:       l.TeamID,
		GamerTag:     l.GamerTag,
		TeamName:     l.TeamName,
		GoalieTotals: SumGoalies([]GoalieLine{l}),
	}
}

// Standing is one team's row in the league table.
type Standing struct {
	TeamID         string  `json:"team_id"`
	TeamName       string  `json:"team_name"`
	ConferenceID   string  `json:"conference_id,omitempty"`
	GamesPlayed    int     `json:"games_played"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	OvertimeLosses int     `json:"overtime_losses"`
	Points         int     `json:"points"`
	GoalsFor       int     `json:"goals_for"`
	GoalsAgainst   int     `json:"goals_against"`
	GoalDiff       int     `json:"goal_diff"`
	WinPct         float64 `json:"win_pct"`
}

// ConferenceTable is the ordered standings of one conference. An empty
// ConferenceID collects teams without a conference.
type ConferenceTable struct {
	ConferenceID string     `json:"conference_id"`
	Teams        []Standing `json:"teams"`
}

// RebuildReport summarises a season rebuild from EA rows.
type RebuildReport struct {
	SeasonID    string `json:"season_id"`
	MatchLines  int    `json:"match_lines"`
	SkaterLines int    `json:"skater_lines"`
	GoalieLines int    `json:"goalie_lines"`
	DurationMs  int64  `json:"duration_ms"`
}

// Kind selects the skater or goalie stat table.
type Kind string

const (
	KindSkater Kind = "skater"
	KindGoalie Kind = "goalie"
)

func (k Kind) Valid() bool {
	return k == KindSkater || k == KindGoalie
}
