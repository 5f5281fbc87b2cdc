package league

import (
	"database/sql"
	"strings"
	"sync"
	"time"
)

// store handles all database operations for the league.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Conference is a league subdivision used for playoff seeding.
type Conference struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"created_at"`
}

// Team is a league club, optionally linked to an EA Pro Clubs club.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	LogoURL      string `json:"logo_url"`
	ConferenceID string `json:"conference_id,omitempty"`
	EAClubID     string `json:"ea_club_id,omitempty"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    int64  `json:"created_at"`
}

// User is a league account identified by its in-game gamer tag.
type User struct {
	ID        string `json:"id"`
	GamerTag  string `json:"gamer_tag"`
	Email     string `json:"email,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt int64  `json:"created_at"`
}

// PlayerRole is the roster role of a player on their team.
type PlayerRole string

const (
	RolePlayer    PlayerRole = "player"
	RoleCaptain   PlayerRole = "captain"
	RoleAlternate PlayerRole = "alternate"
	RoleGM        PlayerRole = "gm"
	RoleAGM       PlayerRole = "agm"
	RoleOwner     PlayerRole = "owner"
)

// Valid reports whether r is a known role.
func (r PlayerRole) Valid() bool {
	switch r {
	case RolePlayer, RoleCaptain, RoleAlternate, RoleGM, RoleAGM, RoleOwner:
		return true
	}
	return false
}

// IsManagement reports whether the role grants a management Discord role.
func (r PlayerRole) IsManagement() bool {
	return r != RolePlayer && r.Valid()
}

// Player is a user's league membership. TeamID is empty for free agents.
type Player struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	GamerTag  string     `json:"gamer_tag"`
	TeamID    string     `json:"team_id,omitempty"`
	TeamName  string     `json:"team_name,omitempty"`
	Role      PlayerRole `json:"role"`
	Status    string     `json:"status"`
	CreatedAt int64      `json:"created_at"`
}

// Position is an on-ice position abbreviation.
type Position string

const (
	PositionCenter       Position = "C"
	PositionLeftWing     Position = "LW"
	PositionRightWing    Position = "RW"
	PositionLeftDefense  Position = "LD"
	PositionRightDefense Position = "RD"
	PositionGoalie       Position = "G"
)

// ParsePosition accepts an abbreviation in any case.
func ParsePosition(s string) (Position, bool) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PositionCenter, PositionLeftWing, PositionRightWing, PositionLeftDefense, PositionRightDefense, PositionGoalie:
		return p, true
	}
	return "", false
}

// Season bounds a set of matches and statistics.
type Season struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate int64  `json:"start_date"`
	EndDate   int64  `json:"end_date"`
	CreatedAt int64  `json:"created_at"`
}

// Contains reports whether ts (unix seconds) falls inside the season window.
func (s Season) Contains(ts int64) bool {
	return ts >= s.StartDate && ts <= s.EndDate
}

// RegistrationStatus is the review state of a season registration.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

func (s RegistrationStatus) Valid() bool {
	return s == RegistrationPending || s == RegistrationApproved || s == RegistrationRejected
}

// Registration is a user's sign-up for a season.
type Registration struct {
	ID                string             `json:"id"`
	UserID            string             `json:"user_id"`
	GamerTag          string             `json:"gamer_tag"`
	SeasonID          string             `json:"season_id"`
	PrimaryPosition   Position           `json:"primary_position"`
	SecondaryPosition Position           `json:"secondary_position,omitempty"`
	Status            RegistrationStatus `json:"status"`
	CreatedAt         int64              `json:"created_at"`
}

// MatchStatus is the lifecycle state of a scheduled game.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchCompleted MatchStatus = "completed"
	MatchPostponed MatchStatus = "postponed"
	MatchCancelled MatchStatus = "cancelled"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchScheduled, MatchCompleted, MatchPostponed, MatchCancelled:
		return true
	}
	return false
}

// Match is a fixture between two league teams.
type Match struct {
	ID           string      `json:"id"`
	SeasonID     string      `json:"season_id"`
	HomeTeamID   string      `json:"home_team_id"`
	HomeTeamName string      `json:"home_team_name,omitempty"`
	AwayTeamID   string      `json:"away_team_id"`
	AwayTeamName string      `json:"away_team_name,omitempty"`
	MatchDate    int64       `json:"match_date"`
	Status       MatchStatus `json:"status"`
	HomeScore    int         `json:"home_score"`
	AwayScore    int         `json:"away_score"`
	Overtime     bool        `json:"overtime"`
	EAMatchID    string      `json:"ea_match_id,omitempty"`
	CreatedAt    int64       `json:"created_at"`
}

// MatchFilter narrows ListMatches. Empty fields match everything.
type MatchFilter struct {
	SeasonID string
	TeamID   string
	Status   MatchStatus
	Limit    int
}

// Setting keys stored in system_settings.
const (
	SettingCurrentSeason = "current_season_id"
)
