package league

import (
	"context"
	"database/sql"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const teamColumns = "id, name, abbreviation, logo_url, conference_id, ea_club_id, is_active, created_at"

func (s *store) CreateTeam(ctx context.Context, team Team) (*Team, error) {
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return nil, Validationf("team name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	team.ID = uuid.NewString()
	team.Abbreviation = strings.ToUpper(strings.TrimSpace(team.Abbreviation))
	team.IsActive = true
	team.CreatedAt = s.now().Unix()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (`+teamColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		team.ID, team.Name, team.Abbreviation, team.LogoURL, NullString(team.ConferenceID),
		NullString(team.EAClubID), team.IsActive, team.CreatedAt)
	if err != nil {
		return nil, TranslateError(err, "create team")
	}
	log.Info("Created team", "teamID", team.ID, "name", team.Name)
	return &team, nil
}

// UpdateTeam overwrites the editable fields of an existing team. The logo is left alone.
func (s *store) UpdateTeam(ctx context.Context, team Team) error {
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return Validationf("team name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.execAffectingOne(ctx, "update team", `
		UPDATE teams SET name = ?, abbreviation = ?, conference_id = ?, ea_club_id = ?, is_active = ?
		WHERE id = ?`,
		team.Name, strings.ToUpper(strings.TrimSpace(team.Abbreviation)), NullString(team.ConferenceID),
		NullString(team.EAClubID), team.IsActive, team.ID)
}

func (s *store) DeleteTeam(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.execAffectingOne(ctx, "delete team", "DELETE FROM teams WHERE id = ?", id); err != nil {
		return err
	}
	log.Info("Deleted team", "teamID", id)
	return nil
}

func (s *store) GetTeam(ctx context.Context, id string) (*Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, "SELECT "+teamColumns+" FROM teams WHERE id = ?", id)
	team, err := scanTeam(row)
	if err != nil {
		return nil, TranslateError(err, "team "+id)
	}
	return team, nil
}

func (s *store) GetTeamByEAClubID(ctx context.Context, clubID string) (*Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, "SELECT "+teamColumns+" FROM teams WHERE ea_club_id = ?", clubID)
	team, err := scanTeam(row)
	if err != nil {
		return nil, TranslateError(err, "team for EA club "+clubID)
	}
	return team, nil
}

// ListTeams returns all teams, or only those of one conference when conferenceID is set.
func (s *store) ListTeams(ctx context.Context, conferenceID string) ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + teamColumns + " FROM teams"
	var args []any
	if conferenceID != "" {
		query += " WHERE conference_id = ?"
		args = append(args, conferenceID)
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			log.Error("Failed to scan team row", "error", err)
			continue
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

// AssignConference moves a team into a conference. An empty conferenceID clears it.
func (s *store) AssignConference(ctx context.Context, teamID, conferenceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execAffectingOne(ctx, "assign conference",
		"UPDATE teams SET conference_id = ? WHERE id = ?", NullString(conferenceID), teamID)
}

func (s *store) SetTeamLogo(ctx context.Context, teamID, logoURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execAffectingOne(ctx, "set team logo", "UPDATE teams SET logo_url = ? WHERE id = ?", logoURL, teamID)
}

func scanTeam(scanner interface{ Scan(...any) error }) (*Team, error) {
	var t Team
	var conferenceID, clubID sql.NullString
	err := scanner.Scan(&t.ID, &t.Name, &t.Abbreviation, &t.LogoURL, &conferenceID, &clubID, &t.IsActive, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.ConferenceID = conferenceID.String
	t.EAClubID = clubID.String
	return &t, nil
}
