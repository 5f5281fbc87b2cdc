package ea

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Value is a scalar from the EA payload. EA encodes most numbers as strings
// but not consistently, so both forms are accepted.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		*v = ""
	default:
		*v = Value(data)
	}
	return nil
}

// Int coerces the value, falling back to zero.
func (v Value) Int() int {
	s := strings.TrimSpace(string(v))
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func (v Value) Int64() int64 {
	s := strings.TrimSpace(string(v))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func (v Value) Float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	if err != nil {
		return 0
	}
	return f
}

func (v Value) String() string {
	return string(v)
}

// RawMatch is one entry of the clubs/matches response.
type RawMatch struct {
	MatchID   Value                           `json:"matchId"`
	Timestamp Value                           `json:"timestamp"`
	Clubs     map[string]RawClub              `json:"clubs"`
	Players   map[string]map[string]RawPlayer `json:"players"`

	// Raw holds the undecoded entry for archival.
	Raw json.RawMessage `json:"-"`
}

// RawClub carries a club's abbreviated stat keys plus its details block.
type RawClub struct {
	Name  string
	Stats map[string]Value
}

func (c *RawClub) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	c.Stats = make(map[string]Value, len(fields))
	for key, raw := range fields {
		if key == "details" {
			var details struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(raw, &details); err == nil {
				c.Name = details.Name
			}
			continue
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return err
		}
		c.Stats[key] = v
	}
	return nil
}

// RawPlayer maps EA's abbreviated keys (skgoals, glsavepct, ...) to values.
type RawPlayer map[string]Value

// ClubInfo is a club search hit.
type ClubInfo struct {
	ClubID   string `json:"club_id"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
	RegionID int    `json:"region_id"`
}

type rawClubInfo struct {
	ClubID   Value  `json:"clubId"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
	RegionID Value  `json:"regionId"`
}

// MatchRecord is a normalized EA match.
type MatchRecord struct {
	EAMatchID string       `json:"ea_match_id"`
	PlayedAt  int64        `json:"played_at"`
	Overtime  bool         `json:"overtime"`
	Home      TeamLine     `json:"home"`
	Away      TeamLine     `json:"away"`
	Players   []PlayerLine `json:"players"`
}

// Team returns the line of the given club, if it took part.
func (m MatchRecord) Team(clubID string) (TeamLine, bool) {
	switch clubID {
	case m.Home.ClubID:
		return m.Home, true
	case m.Away.ClubID:
		return m.Away, true
	}
	return TeamLine{}, false
}

// TeamLine is one club's side of a match.
type TeamLine struct {
	ClubID                 string `json:"club_id"`
	ClubName               string `json:"club_name"`
	Result                 string `json:"result"`
	Overtime               bool   `json:"overtime"`
	Goals                  int    `json:"goals"`
	GoalsAgainst           int    `json:"goals_against"`
	Shots                  int    `json:"shots"`
	Hits                   int    `json:"hits"`
	PIM                    int    `json:"pim"`
	PowerPlayGoals         int    `json:"power_play_goals"`
	PowerPlayOpportunities int    `json:"power_play_opportunities"`
	FaceoffsWon            int    `json:"faceoffs_won"`
	PassesCompleted        int    `json:"passes_completed"`
	PassesAttempted        int    `json:"passes_attempted"`
	TimeOnAttackSeconds    int    `json:"time_on_attack_seconds"`
}

// PlayerLine is one player's stats for a match.
type PlayerLine struct {
	ClubID           string  `json:"club_id"`
	EAPlayerID       string  `json:"ea_player_id"`
	Name             string  `json:"name"`
	Position         string  `json:"position"`
	Result           string  `json:"result"`
	Goals            int     `json:"goals"`
	Assists          int     `json:"assists"`
	PlusMinus        int     `json:"plus_minus"`
	PIM              int     `json:"pim"`
	Shots            int     `json:"shots"`
	Hits             int     `json:"hits"`
	BlockedShots     int     `json:"blocked_shots"`
	Takeaways        int     `json:"takeaways"`
	Giveaways        int     `json:"giveaways"`
	PowerPlayGoals   int     `json:"power_play_goals"`
	ShortHandedGoals int     `json:"short_handed_goals"`
	GameWinningGoals int     `json:"game_winning_goals"`
	FaceoffsWon      int     `json:"faceoffs_won"`
	FaceoffsLost     int     `json:"faceoffs_lost"`
	Saves            int     `json:"saves"`
	ShotsAgainst     int     `json:"shots_against"`
	GoalsAgainst     int     `json:"goals_against"`
	SavePct          float64 `json:"save_pct"`
	TOISeconds       int     `json:"toi_seconds"`
}

// IsGoalie reports whether the line was played in net.
func (p PlayerLine) IsGoalie() bool {
	return p.Position == PositionGoalie
}
