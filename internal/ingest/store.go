package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/ea"
	"github.com/mauv0809/pro-clubs-league/internal/league"
)

// NewStore creates a new EA data store.
func NewStore(db *sql.DB) Store {
	return &store{
		db:  db,
		now: time.Now,
	}
}

func (s *store) GetMatch(ctx context.Context, eaMatchID string) (*StoredMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT ea_match_id, played_at, home_club_id, away_club_id, linked_match_id, fetched_at
		FROM ea_match_data WHERE ea_match_id = ?`, eaMatchID)
	m, err := scanStoredMatch(row)
	if err != nil {
		return nil, league.TranslateError(err, "EA match "+eaMatchID)
	}
	return m, nil
}

// SaveMatch keeps an existing link to a league match when the payload is refreshed.
func (s *store) SaveMatch(ctx context.Context, rec ea.MatchRecord, raw []byte, playerIDs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if len(raw) == 0 {
		raw = []byte("{}")
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO ea_match_data (ea_match_id, played_at, home_club_id, away_club_id, raw_json, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(ea_match_id) DO UPDATE SET
			played_at = excluded.played_at,
			home_club_id = excluded.home_club_id,
			away_club_id = excluded.away_club_id,
			raw_json = excluded.raw_json,
			fetched_at = excluded.fetched_at`,
		rec.EAMatchID, rec.PlayedAt, rec.Home.ClubID, rec.Away.ClubID, string(raw), s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert EA match %s: %w", rec.EAMatchID, err)
	}

	for _, table := range []string{"ea_team_stats", "ea_player_stats"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE ea_match_id = ?", rec.EAMatchID); err != nil {
			return fmt.Errorf("failed to clear %s for %s: %w", table, rec.EAMatchID, err)
		}
	}

	teamStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ea_team_stats (ea_match_id, ea_club_id, club_name, result, overtime, goals, goals_against,
			shots, hits, pim, power_play_goals, power_play_opportunities, faceoffs_won,
			passes_completed, passes_attempted, time_on_attack_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare team statement: %w", err)
	}
	defer teamStmt.Close()

	for _, t := range []ea.TeamLine{rec.Home, rec.Away} {
		_, err := teamStmt.ExecContext(ctx, rec.EAMatchID, t.ClubID, t.ClubName, t.Result, t.Overtime, t.Goals,
			t.GoalsAgainst, t.Shots, t.Hits, t.PIM, t.PowerPlayGoals, t.PowerPlayOpportunities, t.FaceoffsWon,
			t.PassesCompleted, t.PassesAttempted, t.TimeOnAttackSeconds)
		if err != nil {
			return fmt.Errorf("failed to insert team line for club %s: %w", t.ClubID, err)
		}
	}

	playerStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ea_player_stats (ea_match_id, ea_club_id, ea_player_id, player_name, position, player_id,
			goals, assists, plus_minus, pim, shots, hits, blocked_shots, takeaways, giveaways,
			power_play_goals, short_handed_goals, game_winning_goals, faceoffs_won, faceoffs_lost,
			saves, shots_against, goals_against, toi_seconds, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare player statement: %w", err)
	}
	defer playerStmt.Close()

	for _, p := range rec.Players {
		_, err := playerStmt.ExecContext(ctx, rec.EAMatchID, p.ClubID, p.EAPlayerID, p.Name, p.Position,
			league.NullString(playerIDs[p.EAPlayerID]),
			p.Goals, p.Assists, p.PlusMinus, p.PIM, p.Shots, p.Hits, p.BlockedShots, p.Takeaways, p.Giveaways,
			p.PowerPlayGoals, p.ShortHandedGoals, p.GameWinningGoals, p.FaceoffsWon, p.FaceoffsLost,
			p.Saves, p.ShotsAgainst, p.GoalsAgainst, p.TOISeconds, p.Result)
		if err != nil {
			return league.TranslateError(err, "EA player line "+p.EAPlayerID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit EA match %s: %w", rec.EAMatchID, err)
	}
	log.Debug("Stored EA match", "eaMatchID", rec.EAMatchID, "players", len(rec.Players), "linkedPlayers", len(playerIDs))
	return nil
}

func (s *store) LinkMatch(ctx context.Context, eaMatchID, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE ea_match_data SET linked_match_id = ? WHERE ea_match_id = ?",
		league.NullString(matchID), eaMatchID)
	if err != nil {
		return league.TranslateError(err, "link EA match "+eaMatchID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return league.TranslateError(sql.ErrNoRows, "EA match "+eaMatchID)
	}
	return nil
}

// ListMatches returns stored EA matches, most recently played first.
func (s *store) ListMatches(ctx context.Context, limit int) ([]StoredMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT ea_match_id, played_at, home_club_id, away_club_id, linked_match_id, fetched_at
		FROM ea_match_data ORDER BY played_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []StoredMatch{}
	for rows.Next() {
		m, err := scanStoredMatch(rows)
		if err != nil {
			log.Error("Failed to scan EA match row", "error", err)
			continue
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

func (s *store) ListPlayerLines(ctx context.Context, eaMatchID string) ([]PlayerRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT ea_club_id, ea_player_id, player_name, position, COALESCE(player_id, ''), result,
			goals, assists, plus_minus, pim, shots, hits, blocked_shots, takeaways, giveaways,
			power_play_goals, short_handed_goals, game_winning_goals, faceoffs_won, faceoffs_lost,
			saves, shots_against, goals_against, toi_seconds
		FROM ea_player_stats WHERE ea_match_id = ? ORDER BY ea_club_id, ea_player_id`, eaMatchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []PlayerRow{}
	for rows.Next() {
		var r PlayerRow
		p := &r.PlayerLine
		err := rows.Scan(&p.ClubID, &p.EAPlayerID, &p.Name, &p.Position, &r.PlayerID, &p.Result,
			&p.Goals, &p.Assists, &p.PlusMinus, &p.PIM, &p.Shots, &p.Hits, &p.BlockedShots, &p.Takeaways, &p.Giveaways,
			&p.PowerPlayGoals, &p.ShortHandedGoals, &p.GameWinningGoals, &p.FaceoffsWon, &p.FaceoffsLost,
			&p.Saves, &p.ShotsAgainst, &p.GoalsAgainst, &p.TOISeconds)
		if err != nil {
			return nil, fmt.Errorf("failed to scan EA player line: %w", err)
		}
		if p.ShotsAgainst > 0 {
			p.SavePct = float64(p.Saves) / float64(p.ShotsAgainst)
		}
		lines = append(lines, r)
	}
	return lines, rows.Err()
}

func scanStoredMatch(scanner interface{ Scan(...any) error }) (*StoredMatch, error) {
	var m StoredMatch
	var linked sql.NullString
	if err := scanner.Scan(&m.EAMatchID, &m.PlayedAt, &m.HomeClubID, &m.AwayClubID, &linked, &m.FetchedAt); err != nil {
		return nil, err
	}
	m.LinkedMatchID = linked.String
	return &m, nil
}
