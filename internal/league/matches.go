package league

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const matchSelect = `
	SELECT m.id, m.season_id, m.home_team_id, COALESCE(h.name, ''), m.away_team_id, COALESCE(a.name, ''),
		m.match_date, m.status, m.home_score, m.away_score, m.overtime, m.ea_match_id, m.created_at
	FROM matches m
	LEFT JOIN teams h ON h.id = m.home_team_id
	LEFT JOIN teams a ON a.id = m.away_team_id`

func (s *store) CreateMatch(ctx context.Context, match Match) (*Match, error) {
	if match.HomeTeamID == "" || match.AwayTeamID == "" {
		return nil, Validationf("both teams are required")
	}
	if match.HomeTeamID == match.AwayTeamID {
		return nil, Validationf("a team cannot play itself")
	}
	if match.Status == "" {
		match.Status = MatchScheduled
	}
	if !match.Status.Valid() {
		return nil, Validationf("unknown match status %q", match.Status)
	}
	if match.HomeScore < 0 || match.AwayScore < 0 {
		return nil, Validationf("scores must not be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	match.ID = uuid.NewString()
	match.CreatedAt = s.now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (id, season_id, home_team_id, away_team_id, match_date, status, home_score, away_score, overtime, ea_match_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		match.ID, match.SeasonID, match.HomeTeamID, match.AwayTeamID, match.MatchDate, match.Status,
		match.HomeScore, match.AwayScore, match.Overtime, NullString(match.EAMatchID), match.CreatedAt)
	if err != nil {
		return nil, TranslateError(err, "create match")
	}
	log.Info("Scheduled match", "matchID", match.ID, "home", match.HomeTeamID, "away", match.AwayTeamID)
	return s.getMatchLocked(ctx, match.ID)
}

func (s *store) GetMatch(ctx context.Context, id string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMatchLocked(ctx, id)
}

func (s *store) getMatchLocked(ctx context.Context, id string) (*Match, error) {
	m, err := scanMatch(s.db.QueryRowContext(ctx, matchSelect+" WHERE m.id = ?", id))
	if err != nil {
		return nil, TranslateError(err, "match "+id)
	}
	return m, nil
}

// ListMatches returns matches ordered by date, newest last.
func (s *store) ListMatches(ctx context.Context, filter MatchFilter) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := matchSelect + " WHERE 1 = 1"
	var args []any
	if filter.SeasonID != "" {
		query += " AND m.season_id = ?"
		args = append(args, filter.SeasonID)
	}
	if filter.TeamID != "" {
		query += " AND (m.home_team_id = ? OR m.away_team_id = ?)"
		args = append(args, filter.TeamID, filter.TeamID)
	}
	if filter.Status != "" {
		query += " AND m.status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY m.match_date, m.created_at"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// RecordResult stores a final score and marks the match completed.
func (s *store) RecordResult(ctx context.Context, matchID string, homeScore, awayScore int, overtime bool) error {
	if homeScore < 0 || awayScore < 0 {
		return Validationf("scores must not be negative")
	}
	if homeScore == awayScore {
		return Validationf("a completed match needs a winner, got %d-%d", homeScore, awayScore)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.execAffectingOne(ctx, "record result", `
		UPDATE matches SET home_score = ?, away_score = ?, overtime = ?, status = ?
		WHERE id = ?`, homeScore, awayScore, overtime, MatchCompleted, matchID)
	if err != nil {
		return err
	}
	log.Info("Recorded match result", "matchID", matchID, "home", homeScore, "away", awayScore, "overtime", overtime)
	return nil
}

// FindScheduledMatch returns the earliest scheduled, unlinked match between two teams in either orientation.
func (s *store) FindScheduledMatch(ctx context.Context, seasonID, teamA, teamB string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, matchSelect+`
		WHERE m.season_id = ? AND m.status = ? AND m.ea_match_id IS NULL
		AND ((m.home_team_id = ? AND m.away_team_id = ?) OR (m.home_team_id = ? AND m.away_team_id = ?))
		ORDER BY m.match_date LIMIT 1`,
		seasonID, MatchScheduled, teamA, teamB, teamB, teamA)
	m, err := scanMatch(row)
	if err != nil {
		return nil, TranslateError(err, "scheduled match")
	}
	return m, nil
}

func (s *store) LinkEAMatch(ctx context.Context, matchID, eaMatchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execAffectingOne(ctx, "link EA match", "UPDATE matches SET ea_match_id = ? WHERE id = ?", eaMatchID, matchID)
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var eaMatchID sql.NullString
	err := scanner.Scan(&m.ID, &m.SeasonID, &m.HomeTeamID, &m.HomeTeamName, &m.AwayTeamID, &m.AwayTeamName,
		&m.MatchDate, &m.Status, &m.HomeScore, &m.AwayScore, &m.Overtime, &eaMatchID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.EAMatchID = eaMatchID.String
	return &m, nil
}
