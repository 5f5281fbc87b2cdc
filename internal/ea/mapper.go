package ea

import (
	"fmt"
	"sort"
	"strings"
)

// Positions produced by MapPosition.
const (
	PositionGoalie       = "G"
	PositionCenter       = "C"
	PositionLeftWing     = "LW"
	PositionRightWing    = "RW"
	PositionLeftDefense  = "LD"
	PositionRightDefense = "RD"
	PositionDefense      = "D"
	PositionUnknown      = "UNK"
)

// Results stored on team and player lines.
const (
	ResultWin          = "W"
	ResultLoss         = "L"
	ResultOvertimeLoss = "OTL"
)

// RegulationSeconds is the length of three regulation periods.
const RegulationSeconds = 3600

var positionCodes = map[string]string{
	"0": PositionGoalie,
	"1": PositionRightDefense,
	"2": PositionLeftDefense,
	"3": PositionRightWing,
	"4": PositionLeftWing,
	"5": PositionCenter,
}

// Keys are lower case with separators removed.
var positionNames = map[string]string{
	"goalie":       PositionGoalie,
	"goaltender":   PositionGoalie,
	"g":            PositionGoalie,
	"center":       PositionCenter,
	"centre":       PositionCenter,
	"c":            PositionCenter,
	"leftwing":     PositionLeftWing,
	"lw":           PositionLeftWing,
	"rightwing":    PositionRightWing,
	"rw":           PositionRightWing,
	"defensemen":   PositionDefense,
	"defenseman":   PositionDefense,
	"defense":      PositionDefense,
	"d":            PositionDefense,
	"leftdefense":  PositionLeftDefense,
	"ld":           PositionLeftDefense,
	"rightdefense": PositionRightDefense,
	"rd":           PositionRightDefense,
}

// EA result codes that mean the game went past regulation.
var overtimeResultCodes = map[string]bool{"5": true, "6": true}

// EA result codes that mean the club won.
var winResultCodes = map[string]bool{"1": true, "5": true}

// MapPosition converts an EA position code or name to a league abbreviation.
func MapPosition(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return PositionUnknown
	}
	if pos, ok := positionCodes[key]; ok {
		return pos
	}
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	if pos, ok := positionNames[key]; ok {
		return pos
	}

	switch {
	case strings.Contains(key, "def"):
		switch {
		case strings.Contains(key, "left"):
			return PositionLeftDefense
		case strings.Contains(key, "right"):
			return PositionRightDefense
		}
		return PositionDefense
	case strings.Contains(key, "wing"):
		switch {
		case strings.Contains(key, "left"):
			return PositionLeftWing
		case strings.Contains(key, "right"):
			return PositionRightWing
		}
	case strings.Contains(key, "goal"):
		return PositionGoalie
	case strings.Contains(key, "cent"):
		return PositionCenter
	}
	return PositionUnknown
}

// Normalize turns a raw EA match into typed team and player lines.
func Normalize(raw RawMatch) (MatchRecord, error) {
	id := strings.TrimSpace(raw.MatchID.String())
	if id == "" {
		return MatchRecord{}, fmt.Errorf("ea match has no id")
	}
	if len(raw.Clubs) != 2 {
		return MatchRecord{}, fmt.Errorf("ea match %s has %d clubs, want 2", id, len(raw.Clubs))
	}

	home, away := orderClubs(raw.Clubs)
	rec := MatchRecord{
		EAMatchID: id,
		PlayedAt:  raw.Timestamp.Int64(),
	}

	rec.Overtime = overtimeResultCodes[raw.Clubs[home].Stats["result"].String()] ||
		overtimeResultCodes[raw.Clubs[away].Stats["result"].String()]
	for _, players := range raw.Players {
		for _, p := range players {
			if p["toiseconds"].Int() > RegulationSeconds {
				rec.Overtime = true
			}
		}
	}

	rec.Home = teamLine(home, raw.Clubs[home], rec.Overtime)
	rec.Away = teamLine(away, raw.Clubs[away], rec.Overtime)

	for _, side := range []*TeamLine{&rec.Home, &rec.Away} {
		playerIDs := make([]string, 0, len(raw.Players[side.ClubID]))
		for pid := range raw.Players[side.ClubID] {
			playerIDs = append(playerIDs, pid)
		}
		sort.Strings(playerIDs)

		var hits, pim, fow, shots int
		for _, pid := range playerIDs {
			line := playerLine(side.ClubID, pid, raw.Players[side.ClubID][pid], side.Result)
			hits += line.Hits
			pim += line.PIM
			fow += line.FaceoffsWon
			shots += line.Shots
			rec.Players = append(rec.Players, line)
		}
		if side.Hits == 0 {
			side.Hits = hits
		}
		if side.PIM == 0 {
			side.PIM = pim
		}
		if side.FaceoffsWon == 0 {
			side.FaceoffsWon = fow
		}
		if side.Shots == 0 {
			side.Shots = shots
		}
	}
	return rec, nil
}

// orderClubs picks home and away using teamSide ("0" is home), falling back to club id order.
func orderClubs(clubs map[string]RawClub) (string, string) {
	ids := make([]string, 0, 2)
	for id := range clubs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	a, b := ids[0], ids[1]
	sideA, sideB := clubs[a].Stats["teamSide"].String(), clubs[b].Stats["teamSide"].String()
	if sideA == "1" && sideB != "1" || sideB == "0" && sideA != "0" {
		return b, a
	}
	return a, b
}

func teamLine(clubID string, club RawClub, overtime bool) TeamLine {
	s := club.Stats
	t := TeamLine{
		ClubID:                 clubID,
		ClubName:               club.Name,
		Overtime:               overtime,
		Goals:                  s["score"].Int(),
		GoalsAgainst:           s["opponentScore"].Int(),
		Shots:                  s["shots"].Int(),
		Hits:                   s["skhits"].Int(),
		PIM:                    s["skpim"].Int(),
		PowerPlayGoals:         s["ppg"].Int(),
		PowerPlayOpportunities: s["ppo"].Int(),
		FaceoffsWon:            s["skfow"].Int(),
		PassesCompleted:        s["passc"].Int(),
		PassesAttempted:        s["passa"].Int(),
		TimeOnAttackSeconds:    s["toa"].Int(),
	}
	t.Result = result(t.Goals, t.GoalsAgainst, overtime, s["result"].String())
	return t
}

// result derives W/L/OTL from the score, using the EA code only to split a tied score.
func result(goals, against int, overtime bool, code string) string {
	won := goals > against
	if goals == against {
		won = winResultCodes[code]
	}
	switch {
	case won:
		return ResultWin
	case overtime:
		return ResultOvertimeLoss
	}
	return ResultLoss
}

func playerLine(clubID, eaPlayerID string, p RawPlayer, teamResult string) PlayerLine {
	pos := MapPosition(p["position"].String())
	if pos == PositionUnknown {
		pos = MapPosition(p["posSorted"].String())
	}
	line := PlayerLine{
		ClubID:           clubID,
		EAPlayerID:       eaPlayerID,
		Name:             strings.TrimSpace(p["playername"].String()),
		Position:         pos,
		Result:           teamResult,
		Goals:            p["skgoals"].Int(),
		Assists:          p["skassists"].Int(),
		PlusMinus:        p["skplusmin"].Int(),
		PIM:              p["skpim"].Int(),
		Shots:            p["skshots"].Int(),
		Hits:             p["skhits"].Int(),
		BlockedShots:     p["skbs"].Int(),
		Takeaways:        p["sktakeaways"].Int(),
		Giveaways:        p["skgiveaways"].Int(),
		PowerPlayGoals:   p["skppg"].Int(),
		ShortHandedGoals: p["skshg"].Int(),
		GameWinningGoals: p["skgwg"].Int(),
		FaceoffsWon:      p["skfow"].Int(),
		FaceoffsLost:     p["skfol"].Int(),
		Saves:            p["glsaves"].Int(),
		ShotsAgainst:     p["glshots"].Int(),
		GoalsAgainst:     p["glga"].Int(),
		SavePct:          p["glsavepct"].Float(),
		TOISeconds:       p["toiseconds"].Int(),
	}
	if line.Name == "" {
		line.Name = eaPlayerID
	}
	if line.Saves > line.ShotsAgainst {
		line.ShotsAgainst = line.Saves + line.GoalsAgainst
	}
	if line.SavePct == 0 && line.ShotsAgainst > 0 {
		line.SavePct = float64(line.Saves) / float64(line.ShotsAgainst)
	}
	return line
}
