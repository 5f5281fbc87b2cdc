package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/league"
)

// EA result codes stored on ea_player_stats rows.
const (
	ResultWin          = "W"
	ResultLoss         = "L"
	ResultOvertimeLoss = "OTL"
)

const goaliePosition = "G"

type matchLine struct {
	playerID string
	teamID   string
	position string
	result   string
	skater   SkaterCounts
	goalie   GoalieCounts
}

// RebuildFromEA replaces a season's skater and goalie lines with totals
// aggregated from linked EA player rows played inside the season window.
// The delete and the inserts commit together or not at all.
func (s *store) RebuildFromEA(ctx context.Context, seasonID string) (*RebuildReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := s.now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rebuild: %w", err)
	}
	defer tx.Rollback()

	var start, end int64
	err = tx.QueryRowContext(ctx, "SELECT start_date, end_date FROM seasons WHERE id = ?", seasonID).Scan(&start, &end)
	if err != nil {
		return nil, league.TranslateError(err, "season "+seasonID)
	}

	lines, err := readMatchLines(ctx, tx, start, end)
	if err != nil {
		return nil, err
	}

	skaters := map[string][]SkaterLine{}
	goalies := map[string][]GoalieLine{}
	teams := map[string]string{}
	var skaterOrder, goalieOrder []string
	for _, ml := range lines {
		if ml.teamID != "" {
			teams[ml.playerID] = ml.teamID
		}
		if ml.position == goaliePosition {
			if _, ok := goalies[ml.playerID]; !ok {
				goalieOrder = append(goalieOrder, ml.playerID)
			}
			goalies[ml.playerID] = append(goalies[ml.playerID], GoalieLine{GoalieCounts: ml.goalie})
			continue
		}
		if _, ok := skaters[ml.playerID]; !ok {
			skaterOrder = append(skaterOrder, ml.playerID)
		}
		skaters[ml.playerID] = append(skaters[ml.playerID], SkaterLine{SkaterCounts: ml.skater})
	}

	for _, kind := range []Kind{KindSkater, KindGoalie} {
		if _, err := ClearSeason(ctx, tx, seasonID, kind); err != nil {
			return nil, err
		}
	}

	now := s.now().Unix()
	for _, playerID := range skaterOrder {
		totals := SumSkaters(skaters[playerID])
		line := SkaterLine{PlayerID: playerID, SeasonID: seasonID, TeamID: teams[playerID], SkaterCounts: totals.SkaterCounts}
		if err := UpsertSkater(ctx, tx, line, now); err != nil {
			return nil, err
		}
	}
	for _, playerID := range goalieOrder {
		totals := SumGoalies(goalies[playerID])
		line := GoalieLine{PlayerID: playerID, SeasonID: seasonID, TeamID: teams[playerID], GoalieCounts: totals.GoalieCounts}
		if err := UpsertGoalie(ctx, tx, line, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rebuild: %w", err)
	}

	report := &RebuildReport{
		SeasonID:    seasonID,
		MatchLines:  len(lines),
		SkaterLines: len(skaterOrder),
		GoalieLines: len(goalieOrder),
		DurationMs:  time.Since(started).Milliseconds(),
	}
	log.Info("Rebuilt season stats from EA data", "seasonID", seasonID, "matchLines", report.MatchLines,
		"skaters", report.SkaterLines, "goalies", report.GoalieLines)
	return report, nil
}

// readMatchLines loads every linked EA player row inside [start, end], oldest first,
// and closes the cursor before returning.
func readMatchLines(ctx context.Context, tx *sql.Tx, start, end int64) ([]matchLine, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT ps.player_id, COALESCE(t.id, p.team_id), ps.position, ps.result,
			ps.goals, ps.assists, ps.plus_minus, ps.pim, ps.shots, ps.hits, ps.blocked_shots,
			ps.takeaways, ps.giveaways, ps.power_play_goals, ps.short_handed_goals, ps.game_winning_goals,
			ps.faceoffs_won, ps.faceoffs_lost, ps.saves, ps.shots_against, ps.goals_against, ps.toi_seconds
		FROM ea_player_stats ps
		JOIN ea_match_data md ON md.ea_match_id = ps.ea_match_id
		JOIN players p ON p.id = ps.player_id
		LEFT JOIN teams t ON t.ea_club_id = ps.ea_club_id
		WHERE ps.player_id IS NOT NULL AND md.played_at >= ? AND md.played_at <= ?
		ORDER BY md.played_at, ps.ea_match_id`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to read EA player rows: %w", err)
	}
	defer rows.Close()

	var lines []matchLine
	for rows.Next() {
		var ml matchLine
		var teamID sql.NullString
		var saves, shotsAgainst, goalsAgainst, toi int
		sk := &ml.skater
		err := rows.Scan(&ml.playerID, &teamID, &ml.position, &ml.result,
			&sk.Goals, &sk.Assists, &sk.PlusMinus, &sk.PIM, &sk.Shots, &sk.Hits, &sk.BlockedShots,
			&sk.Takeaways, &sk.Giveaways, &sk.PowerPlayGoals, &sk.ShortHandedGoals, &sk.GameWinningGoals,
			&sk.FaceoffsWon, &sk.FaceoffsLost, &saves, &shotsAgainst, &goalsAgainst, &toi)
		if err != nil {
			return nil, fmt.Errorf("failed to scan EA player row: %w", err)
		}
		ml.teamID = teamID.String
		sk.GamesPlayed = 1
		sk.TOISeconds = toi
		ml.goalie = goalieGame(ml.result, saves, shotsAgainst, goalsAgainst, toi)
		lines = append(lines, ml)
	}
	return lines, rows.Err()
}

func goalieGame(result string, saves, shotsAgainst, goalsAgainst, toi int) GoalieCounts {
	g := GoalieCounts{
		GamesPlayed:  1,
		ShotsAgainst: shotsAgainst,
		Saves:        saves,
		GoalsAgainst: goalsAgainst,
		TOISeconds:   toi,
	}
	switch result {
	case ResultWin:
		g.Wins = 1
	case ResultOvertimeLoss:
		g.OvertimeLosses = 1
	default:
		g.Losses = 1
	}
	if goalsAgainst == 0 && toi > 0 {
		g.Shutouts = 1
	}
	return g
}
