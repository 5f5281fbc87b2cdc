package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/league"
)

// New creates a new stats Store.
func New(db *sql.DB) Store {
	return &store{
		db:  db,
		now: time.Now,
	}
}

var _ Store = (*store)(nil)

const skaterSelect = `
	SELECT s.player_id, s.season_id, s.team_id, u.gamer_tag, COALESCE(t.name, ''),
		s.games_played, s.goals, s.assists, s.plus_minus, s.pim, s.shots, s.hits, s.blocked_shots,
		s.takeaways, s.giveaways, s.power_play_goals, s.short_handed_goals, s.game_winning_goals,
		s.faceoffs_won, s.faceoffs_lost, s.toi_seconds, s.points, s.updated_at
	FROM player_season_stats s
	JOIN players p ON p.id = s.player_id
	JOIN users u ON u.id = p.user_id
	JOIN seasons se ON se.id = s.season_id
	LEFT JOIN teams t ON t.id = s.team_id`

const goalieSelect = `
	SELECT s.player_id, s.season_id, s.team_id, u.gamer_tag, COALESCE(t.name, ''),
		s.games_played, s.wins, s.losses, s.overtime_losses, s.shots_against, s.saves,
		s.goals_against, s.shutouts, s.toi_seconds, s.updated_at
	FROM goalie_season_stats s
	JOIN players p ON p.id = s.player_id
	JOIN users u ON u.id = p.user_id
	JOIN seasons se ON se.id = s.season_id
	LEFT JOIN teams t ON t.id = s.team_id`

// UpsertSkater writes a skater season line. Points are derived from goals and
// assists, and an empty TeamID falls back to the player's current team.
func UpsertSkater(ctx context.Context, ex Execer, line SkaterLine, updatedAt int64) error {
	if line.PlayerID == "" || line.SeasonID == "" {
		return league.Validationf("player and season are required")
	}
	c := line.SkaterCounts
	_, err := ex.ExecContext(ctx, `
		INSERT INTO player_season_stats (player_id, season_id, team_id, games_played, goals, assists, points,
			plus_minus, pim, shots, hits, blocked_shots, takeaways, giveaways, power_play_goals,
			short_handed_goals, game_winning_goals, faceoffs_won, faceoffs_lost, toi_seconds, updated_at)
		VALUES (?, ?, COALESCE(?, (SELECT team_id FROM players WHERE id = ?)), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id, season_id) DO UPDATE SET
			team_id = excluded.team_id,
			games_played = excluded.games_played,
			goals = excluded.goals,
			assists = excluded.assists,
			points = excluded.points,
			plus_minus = excluded.plus_minus,
			pim = excluded.pim,
			shots = excluded.shots,
			hits = excluded.hits,
			blocked_shots = excluded.blocked_shots,
			takeaways = excluded.takeaways,
			giveaways = excluded.giveaways,
			power_play_goals = excluded.power_play_goals,
			short_handed_goals = excluded.short_handed_goals,
			game_winning_goals = excluded.game_winning_goals,
			faceoffs_won = excluded.faceoffs_won,
			faceoffs_lost = excluded.faceoffs_lost,
			toi_seconds = excluded.toi_seconds,
			updated_at = excluded.updated_at`,
		line.PlayerID, line.SeasonID, league.NullString(line.TeamID), line.PlayerID,
		c.GamesPlayed, c.Goals, c.Assists, c.Goals+c.Assists, c.PlusMinus, c.PIM, c.Shots, c.Hits,
		c.BlockedShots, c.Takeaways, c.Giveaways, c.PowerPlayGoals, c.ShortHandedGoals,
		c.GameWinningGoals, c.FaceoffsWon, c.FaceoffsLost, c.TOISeconds, updatedAt)
	return league.TranslateError(err, "upsert skater stats")
}

// UpsertGoalie writes a goalie season line.
func UpsertGoalie(ctx context.Context, ex Execer, line GoalieLine, updatedAt int64) error {
	if line.PlayerID == "" || line.SeasonID == "" {
		return league.Validationf("player and season are required")
	}
	c := line.GoalieCounts
	if c.Saves > c.ShotsAgainst {
		return league.Validationf("saves (%d) exceed shots against (%d)", c.Saves, c.ShotsAgainst)
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO goalie_season_stats (player_id, season_id, team_id, games_played, wins, losses,
			overtime_losses, shots_against, saves, goals_against, shutouts, toi_seconds, updated_at)
		VALUES (?, ?, COALESCE(?, (SELECT team_id FROM players WHERE id = ?)), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id, season_id) DO UPDATE SET
			team_id = excluded.team_id,
			games_played = excluded.games_played,
			wins = excluded.wins,
			losses = excluded.losses,
			overtime_losses = excluded.overtime_losses,
			shots_against = excluded.shots_against,
			saves = excluded.saves,
			goals_against = excluded.goals_against,
			shutouts = excluded.shutouts,
			toi_seconds = excluded.toi_seconds,
			updated_at = excluded.updated_at`,
		line.PlayerID, line.SeasonID, league.NullString(line.TeamID), line.PlayerID,
		c.GamesPlayed, c.Wins, c.Losses, c.OvertimeLosses, c.ShotsAgainst, c.Saves,
		c.GoalsAgainst, c.Shutouts, c.TOISeconds, updatedAt)
	return league.TranslateError(err, "upsert goalie stats")
}

// ClearSeason deletes every line of one kind for a season and returns the number removed.
func ClearSeason(ctx context.Context, ex Execer, seasonID string, kind Kind) (int64, error) {
	var table string
	switch kind {
	case KindSkater:
		table = "player_season_stats"
	case KindGoalie:
		table = "goalie_season_stats"
	default:
		return 0, league.Validationf("unknown stat kind %q", kind)
	}
	res, err := ex.ExecContext(ctx, "DELETE FROM "+table+" WHERE season_id = ?", seasonID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear %s stats for season %s: %w", kind, seasonID, err)
	}
	return res.RowsAffected()
}

func (s *store) UpsertSkaterSeason(ctx context.Context, line SkaterLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := UpsertSkater(ctx, s.db, line, s.now().Unix()); err != nil {
		return err
	}
	log.Debug("Upserted skater season", "playerID", line.PlayerID, "seasonID", line.SeasonID)
	return nil
}

func (s *store) UpsertGoalieSeason(ctx context.Context, line GoalieLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := UpsertGoalie(ctx, s.db, line, s.now().Unix()); err != nil {
		return err
	}
	log.Debug("Upserted goalie season", "playerID", line.PlayerID, "seasonID", line.SeasonID)
	return nil
}

func (s *store) DeleteSkaterSeason(ctx context.Context, playerID, seasonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteOne(ctx, "player_season_stats", playerID, seasonID)
}

func (s *store) DeleteGoalieSeason(ctx context.Context, playerID, seasonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteOne(ctx, "goalie_season_stats", playerID, seasonID)
}

func (s *store) deleteOne(ctx context.Context, table, playerID, seasonID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE player_id = ? AND season_id = ?", playerID, seasonID)
	if err != nil {
		return league.TranslateError(err, "delete season stats")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return league.TranslateError(sql.ErrNoRows, "season stats for player "+playerID)
	}
	log.Info("Deleted season stats", "table", table, "playerID", playerID, "seasonID", seasonID)
	return nil
}

// ListSkaterSeason returns a season's skater lines, optionally for one team, best scorers first.
func (s *store) ListSkaterSeason(ctx context.Context, seasonID, teamID string) ([]SkaterLine, error) {
	query := skaterSelect + " WHERE s.season_id = ?"
	args := []any{seasonID}
	if teamID != "" {
		query += " AND s.team_id = ?"
		args = append(args, teamID)
	}
	query += " ORDER BY s.points DESC, s.goals DESC, u.gamer_tag COLLATE NOCASE"
	return s.querySkaters(ctx, query, args...)
}

func (s *store) ListGoalieSeason(ctx context.Context, seasonID, teamID string) ([]GoalieLine, error) {
	query := goalieSelect + " WHERE s.season_id = ?"
	args := []any{seasonID}
	if teamID != "" {
		query += " AND s.team_id = ?"
		args = append(args, teamID)
	}
	query += " ORDER BY s.wins DESC, s.games_played DESC, u.gamer_tag COLLATE NOCASE"
	return s.queryGoalies(ctx, query, args...)
}

// PlayerSkaterHistory returns every season line of a player, most recent season first.
func (s *store) PlayerSkaterHistory(ctx context.Context, playerID string) ([]SkaterLine, error) {
	return s.querySkaters(ctx, skaterSelect+" WHERE s.player_id = ? ORDER BY se.start_date DESC", playerID)
}

func (s *store) PlayerGoalieHistory(ctx context.Context, playerID string) ([]GoalieLine, error) {
	return s.queryGoalies(ctx, goalieSelect+" WHERE s.player_id = ? ORDER BY se.start_date DESC", playerID)
}

func (s *store) SkaterLeaders(ctx context.Context, seasonID string, limit int) ([]SkaterLine, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.querySkaters(ctx, skaterSelect+`
		WHERE s.season_id = ?
		ORDER BY s.points DESC, s.goals DESC, s.games_played ASC, u.gamer_tag COLLATE NOCASE
		LIMIT ?`, seasonID, limit)
}

func (s *store) querySkaters(ctx context.Context, query string, args ...any) ([]SkaterLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []SkaterLine{}
	for rows.Next() {
		var l SkaterLine
		var teamID sql.NullString
		c := &l.SkaterCounts
		err := rows.Scan(&l.PlayerID, &l.SeasonID, &teamID, &l.GamerTag, &l.TeamName,
			&c.GamesPlayed, &c.Goals, &c.Assists, &c.PlusMinus, &c.PIM, &c.Shots, &c.Hits, &c.BlockedShots,
			&c.Takeaways, &c.Giveaways, &c.PowerPlayGoals, &c.ShortHandedGoals, &c.GameWinningGoals,
			&c.FaceoffsWon, &c.FaceoffsLost, &c.TOISeconds, &l.Points, &l.UpdatedAt)
		if err != nil {
			log.Error("Failed to scan skater stats row", "error", err)
			continue
		}
		l.TeamID = teamID.String
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *store) queryGoalies(ctx context.Context, query string, args ...any) ([]GoalieLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []GoalieLine{}
	for rows.Next() {
		var l GoalieLine
		var teamID sql.NullString
		c := &l.GoalieCounts
		err := rows.Scan(&l.PlayerID, &l.SeasonID, &teamID, &l.GamerTag, &l.TeamName,
			&c.GamesPlayed, &c.Wins, &c.Losses, &c.OvertimeLosses, &c.ShotsAgainst, &c.Saves,
			&c.GoalsAgainst, &c.Shutouts, &c.TOISeconds, &l.UpdatedAt)
		if err != nil {
			log.Error("Failed to scan goalie stats row", "error", err)
			continue
		}
		l.TeamID = teamID.String
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
