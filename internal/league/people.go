package league

import (
	"context"
	"database/sql"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func (s *store) CreateUser(ctx context.Context, gamerTag, email string, isAdmin bool) (*User, error) {
	gamerTag = strings.TrimSpace(gamerTag)
	if gamerTag == "" {
		return nil, Validationf("gamer tag is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &User{
		ID:        uuid.NewString(),
		GamerTag:  gamerTag,
		Email:     strings.TrimSpace(email),
		IsAdmin:   isAdmin,
		CreatedAt: s.now().Unix(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, gamer_tag, email, is_admin, created_at) VALUES (?, ?, ?, ?, ?)",
		u.ID, u.GamerTag, u.Email, u.IsAdmin, u.CreatedAt)
	if err != nil {
		return nil, TranslateError(err, "create user")
	}
	log.Info("Created user", "userID", u.ID, "gamerTag", u.GamerTag)
	return u, nil
}

func (s *store) GetUser(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryUser(ctx, "user "+id, "id = ?", id)
}

// FindUserByGamerTag matches gamer tags case-insensitively.
func (s *store) FindUserByGamerTag(ctx context.Context, gamerTag string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryUser(ctx, "user "+gamerTag, "gamer_tag = ? COLLATE NOCASE", strings.TrimSpace(gamerTag))
}

func (s *store) queryUser(ctx context.Context, what, where string, args ...any) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, gamer_tag, email, is_admin, created_at FROM users WHERE "+where, args...).
		Scan(&u.ID, &u.GamerTag, &u.Email, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, TranslateError(err, what)
	}
	return &u, nil
}

func (s *store) CreatePlayer(ctx context.Context, userID, teamID string, role PlayerRole) (*Player, error) {
	if role == "" {
		role = RolePlayer
	}
	if !role.Valid() {
		return nil, Validationf("unknown player role %q", role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO players (id, user_id, team_id, role, status, created_at) VALUES (?, ?, ?, ?, 'active', ?)",
		id, userID, NullString(teamID), role, s.now().Unix())
	if err != nil {
		return nil, TranslateError(err, "create player")
	}
	log.Info("Created player", "playerID", id, "userID", userID, "teamID", teamID)
	return s.queryPlayer(ctx, "player "+id, "p.id = ?", id)
}

const playerSelect = `
	SELECT p.id, p.user_id, u.gamer_tag, p.team_id, COALESCE(t.name, ''), p.role, p.status, p.created_at
	FROM players p
	JOIN users u ON u.id = p.user_id
	LEFT JOIN teams t ON t.id = p.team_id`

func (s *store) GetPlayer(ctx context.Context, id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryPlayer(ctx, "player "+id, "p.id = ?", id)
}

func (s *store) GetPlayerByUserID(ctx context.Context, userID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryPlayer(ctx, "player for user "+userID, "p.user_id = ?", userID)
}

func (s *store) queryPlayer(ctx context.Context, what, where string, args ...any) (*Player, error) {
	row := s.db.QueryRowContext(ctx, playerSelect+" WHERE "+where, args...)
	p, err := scanPlayer(row)
	if err != nil {
		return nil, TranslateError(err, what)
	}
	return p, nil
}

// ListPlayers returns a team's roster, or every player when teamID is empty.
func (s *store) ListPlayers(ctx context.Context, teamID string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := playerSelect
	var args []any
	if teamID != "" {
		query += " WHERE p.team_id = ?"
		args = append(args, teamID)
	}
	query += " ORDER BY u.gamer_tag COLLATE NOCASE"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// AssignPlayerToTeam moves a player. An empty teamID makes them a free agent.
func (s *store) AssignPlayerToTeam(ctx context.Context, playerID, teamID string, role PlayerRole) error {
	if role == "" {
		role = RolePlayer
	}
	if !role.Valid() {
		return Validationf("unknown player role %q", role)
	}
	if teamID == "" {
		role = RolePlayer
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.execAffectingOne(ctx, "assign player",
		"UPDATE players SET team_id = ?, role = ? WHERE id = ?", NullString(teamID), role, playerID)
	if err != nil {
		return err
	}
	log.Info("Assigned player to team", "playerID", playerID, "teamID", teamID, "role", role)
	return nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var teamID sql.NullString
	if err := scanner.Scan(&p.ID, &p.UserID, &p.GamerTag, &teamID, &p.TeamName, &p.Role, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.TeamID = teamID.String
	return &p, nil
}
