package stats

import "math"

// SumSkaters adds every line and derives the ratio fields.
// Points are always recomputed as goals plus assists.
func SumSkaters(lines []SkaterLine) SkaterTotals {
	var t SkaterTotals
	for _, l := range lines {
		t.SkaterCounts.add(l.SkaterCounts)
	}
	t.Points = t.Goals + t.Assists
	t.PointsPerGame = round(ratio(float64(t.Points), float64(t.GamesPlayed)), 2)
	t.ShootingPct = round(100*ratio(float64(t.Goals), float64(t.Shots)), 1)
	t.FaceoffPct = round(100*ratio(float64(t.FaceoffsWon), float64(t.FaceoffsWon+t.FaceoffsLost)), 1)
	return t
}

// SumGoalies adds every line and derives save percentage, GAA and win percentage.
// GAA is per sixty minutes of ice time and falls back to goals per game when no
// time on ice was recorded.
func SumGoalies(lines []GoalieLine) GoalieTotals {
	var t GoalieTotals
	for _, l := range lines {
		t.GoalieCounts.add(l.GoalieCounts)
	}
	t.SavePct = round(ratio(float64(t.Saves), float64(t.ShotsAgainst)), 3)
	if t.TOISeconds > 0 {
		t.GAA = round(float64(t.GoalsAgainst)*3600/float64(t.TOISeconds), 2)
	} else {
		t.GAA = round(ratio(float64(t.GoalsAgainst), float64(t.GamesPlayed)), 2)
	}
	t.WinPct = round(ratio(float64(t.Wins), float64(t.GamesPlayed)), 3)
	return t
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
