package discord

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/league"
)

// NewStore creates a new bot panel store.
func NewStore(db *sql.DB) Store {
	return &store{
		db:  db,
		now: time.Now,
	}
}

var _ Store = (*store)(nil)

func (s *store) GetBotConfig(ctx context.Context, guildID string) (*BotConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getBotConfigLocked(ctx, guildID)
}

func (s *store) getBotConfigLocked(ctx context.Context, guildID string) (*BotConfig, error) {
	var c BotConfig
	err := s.db.QueryRowContext(ctx, `
		SELECT guild_id, results_channel_id, announcements_channel_id, registered_role_id, is_active, updated_at
		FROM discord_bot_config WHERE guild_id = ?`, guildID).
		Scan(&c.GuildID, &c.ResultsChannelID, &c.AnnouncementsChannelID, &c.RegisteredRoleID, &c.IsActive, &c.UpdatedAt)
	if err != nil {
		return nil, league.TranslateError(err, "bot config for guild "+guildID)
	}
	return &c, nil
}

func (s *store) UpsertBotConfig(ctx context.Context, cfg BotConfig) (*BotConfig, error) {
	cfg.GuildID = strings.TrimSpace(cfg.GuildID)
	if cfg.GuildID == "" {
		return nil, league.Validationf("guild id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO discord_bot_config (guild_id, results_channel_id, announcements_channel_id, registered_role_id, is_active, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			results_channel_id = excluded.results_channel_id,
			announcements_channel_id = excluded.announcements_channel_id,
			registered_role_id = excluded.registered_role_id,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		cfg.GuildID, cfg.ResultsChannelID, cfg.AnnouncementsChannelID, cfg.RegisteredRoleID, cfg.IsActive, s.now().Unix())
	if err != nil {
		return nil, league.TranslateError(err, "upsert bot config")
	}
	log.Info("Updated bot config", "guildID", cfg.GuildID)
	return s.getBotConfigLocked(ctx, cfg.GuildID)
}

func (s *store) ListTeamRoles(ctx context.Context, guildID string) ([]TeamRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.guild_id, r.team_id, COALESCE(t.name, ''), r.role_id
		FROM discord_team_roles r LEFT JOIN teams t ON t.id = r.team_id
		WHERE r.guild_id = ? ORDER BY t.name`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []TeamRole{}
	for rows.Next() {
		var r TeamRole
		if err := rows.Scan(&r.GuildID, &r.TeamID, &r.TeamName, &r.RoleID); err != nil {
			log.Error("Failed to scan team role row", "error", err)
			continue
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (s *store) SetTeamRole(ctx context.Context, guildID, teamID, roleID string) error {
	if guildID == "" || teamID == "" || roleID == "" {
		return league.Validationf("guild, team and role are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO discord_team_roles (guild_id, team_id, role_id) VALUES (?, ?, ?)
		ON CONFLICT(guild_id, team_id) DO UPDATE SET role_id = excluded.role_id`, guildID, teamID, roleID)
	return league.TranslateError(err, "team role")
}

func (s *store) DeleteTeamRole(ctx context.Context, guildID, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execOne(ctx, "team role", "DELETE FROM discord_team_roles WHERE guild_id = ? AND team_id = ?", guildID, teamID)
}

func (s *store) ListManagementRoles(ctx context.Context, guildID string) ([]ManagementRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT guild_id, player_role, role_id FROM discord_management_roles
		WHERE guild_id = ? ORDER BY player_role`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []ManagementRole{}
	for rows.Next() {
		var r ManagementRole
		if err := rows.Scan(&r.GuildID, &r.PlayerRole, &r.RoleID); err != nil {
			log.Error("Failed to scan management role row", "error", err)
			continue
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (s *store) SetManagementRole(ctx context.Context, guildID string, role league.PlayerRole, roleID string) error {
	if !role.IsManagement() {
		return league.Validationf("%q is not a management role", role)
	}
	if guildID == "" || roleID == "" {
		return league.Validationf("guild and role are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO discord_management_roles (guild_id, player_role, role_id) VALUES (?, ?, ?)
		ON CONFLICT(guild_id, player_role) DO UPDATE SET role_id = excluded.role_id`, guildID, role, roleID)
	return league.TranslateError(err, "management role")
}

func (s *store) DeleteManagementRole(ctx context.Context, guildID string, role league.PlayerRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execOne(ctx, "management role", "DELETE FROM discord_management_roles WHERE guild_id = ? AND player_role = ?", guildID, role)
}

func (s *store) LinkDiscordUser(ctx context.Context, userID, discordID, username string) (*DiscordUser, error) {
	discordID = strings.TrimSpace(discordID)
	if userID == "" || discordID == "" {
		return nil, league.Validationf("user and discord id are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO discord_users (user_id, discord_id, discord_username, linked_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			discord_id = excluded.discord_id,
			discord_username = excluded.discord_username,
			linked_at = excluded.linked_at`,
		userID, discordID, strings.TrimSpace(username), s.now().Unix())
	if err != nil {
		return nil, league.TranslateError(err, "discord link")
	}
	log.Info("Linked Discord account", "userID", userID, "discordID", discordID)

	var u DiscordUser
	err = s.db.QueryRowContext(ctx, discordUserSelect+" WHERE d.user_id = ?", userID).
		Scan(&u.UserID, &u.GamerTag, &u.DiscordID, &u.DiscordUsername, &u.LinkedAt)
	if err != nil {
		return nil, league.TranslateError(err, "discord link")
	}
	return &u, nil
}

const discordUserSelect = `
	SELECT d.user_id, u.gamer_tag, d.discord_id, d.discord_username, d.linked_at
	FROM discord_users d JOIN users u ON u.id = d.user_id`

func (s *store) ListDiscordUsers(ctx context.Context) ([]DiscordUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, discordUserSelect+" ORDER BY u.gamer_tag COLLATE NOCASE")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []DiscordUser{}
	for rows.Next() {
		var u DiscordUser
		if err := rows.Scan(&u.UserID, &u.GamerTag, &u.DiscordID, &u.DiscordUsername, &u.LinkedAt); err != nil {
			log.Error("Failed to scan discord user row", "error", err)
			continue
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *store) UnlinkDiscordUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execOne(ctx, "discord link", "DELETE FROM discord_users WHERE user_id = ?", userID)
}

const twitchUserSelect = `
	SELECT t.user_id, u.gamer_tag, t.twitch_login, t.is_live, t.stream_title, t.checked_at
	FROM twitch_users t JOIN users u ON u.id = t.user_id`

func (s *store) LinkTwitchUser(ctx context.Context, userID, login string) (*TwitchUser, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if userID == "" || login == "" {
		return nil, league.Validationf("user and twitch login are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO twitch_users (user_id, twitch_login) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET twitch_login = excluded.twitch_login, is_live = 0, stream_title = ''`,
		userID, login)
	if err != nil {
		return nil, league.TranslateError(err, "twitch link")
	}
	log.Info("Linked Twitch channel", "userID", userID, "login", login)

	var u TwitchUser
	err = s.db.QueryRowContext(ctx, twitchUserSelect+" WHERE t.user_id = ?", userID).
		Scan(&u.UserID, &u.GamerTag, &u.TwitchLogin, &u.IsLive, &u.StreamTitle, &u.CheckedAt)
	if err != nil {
		return nil, league.TranslateError(err, "twitch link")
	}
	return &u, nil
}

func (s *store) ListTwitchUsers(ctx context.Context, liveOnly bool) ([]TwitchUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := twitchUserSelect
	if liveOnly {
		query += " WHERE t.is_live = 1"
	}
	rows, err := s.db.QueryContext(ctx, query+" ORDER BY t.twitch_login")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []TwitchUser{}
	for rows.Next() {
		var u TwitchUser
		if err := rows.Scan(&u.UserID, &u.GamerTag, &u.TwitchLogin, &u.IsLive, &u.StreamTitle, &u.CheckedAt); err != nil {
			log.Error("Failed to scan twitch user row", "error", err)
			continue
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *store) UnlinkTwitchUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execOne(ctx, "twitch link", "DELETE FROM twitch_users WHERE user_id = ?", userID)
}

func (s *store) SetTwitchLive(ctx context.Context, login string, live bool, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !live {
		title = ""
	}
	return s.execOne(ctx, "twitch channel "+login,
		"UPDATE twitch_users SET is_live = ?, stream_title = ?, checked_at = ? WHERE twitch_login = ?",
		live, title, s.now().Unix(), login)
}

// execOne runs a statement that must touch exactly one row.
func (s *store) execOne(ctx context.Context, what, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return league.TranslateError(err, what)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return league.TranslateError(sql.ErrNoRows, what)
	}
	return nil
}
