package league

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func (s *store) CreateSeason(ctx context.Context, name string, start, end int64) (*Season, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Validationf("season name is required")
	}
	if end < start {
		return nil, Validationf("season end must not be before its start")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	season := &Season{
		ID:        uuid.NewString(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
		CreatedAt: s.now().Unix(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO seasons (id, name, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?)",
		season.ID, season.Name, season.StartDate, season.EndDate, season.CreatedAt)
	if err != nil {
		return nil, TranslateError(err, "create season")
	}
	log.Info("Created season", "seasonID", season.ID, "name", season.Name)
	return season, nil
}

func (s *store) GetSeason(ctx context.Context, id string) (*Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSeasonLocked(ctx, id)
}

func (s *store) getSeasonLocked(ctx context.Context, id string) (*Season, error) {
	var season Season
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, start_date, end_date, created_at FROM seasons WHERE id = ?", id).
		Scan(&season.ID, &season.Name, &season.StartDate, &season.EndDate, &season.CreatedAt)
	if err != nil {
		return nil, TranslateError(err, "season "+id)
	}
	return &season, nil
}

func (s *store) ListSeasons(ctx context.Context) ([]Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, start_date, end_date, created_at FROM seasons ORDER BY start_date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seasons := []Season{}
	for rows.Next() {
		var season Season
		if err := rows.Scan(&season.ID, &season.Name, &season.StartDate, &season.EndDate, &season.CreatedAt); err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

// CurrentSeason resolves the season referenced by the current_season_id setting.
func (s *store) CurrentSeason(ctx context.Context) (*Season, error) {
	id, err := s.GetSetting(ctx, SettingCurrentSeason)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("no current season configured: %w", ErrNotFound)
		}
		return nil, err
	}
	return s.GetSeason(ctx, id)
}

func (s *store) SetCurrentSeason(ctx context.Context, seasonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.getSeasonLocked(ctx, seasonID); err != nil {
		return err
	}
	return s.setSettingLocked(ctx, SettingCurrentSeason, seasonID)
}

func (s *store) Register(ctx context.Context, userID, seasonID string, primary, secondary Position) (*Registration, error) {
	if _, ok := ParsePosition(string(primary)); !ok {
		return nil, Validationf("primary position %q is not valid", primary)
	}
	if secondary != "" {
		if _, ok := ParsePosition(string(secondary)); !ok {
			return nil, Validationf("secondary position %q is not valid", secondary)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	reg := &Registration{
		ID:                uuid.NewString(),
		UserID:            userID,
		SeasonID:          seasonID,
		PrimaryPosition:   primary,
		SecondaryPosition: secondary,
		Status:            RegistrationPending,
		CreatedAt:         s.now().Unix(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO season_registrations (id, user_id, season_id, primary_position, secondary_position, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reg.ID, reg.UserID, reg.SeasonID, reg.PrimaryPosition, reg.SecondaryPosition, reg.Status, reg.CreatedAt)
	if err != nil {
		return nil, TranslateError(err, "register for season")
	}
	log.Info("Season registration received", "userID", userID, "seasonID", seasonID, "position", primary)
	return reg, nil
}

func (s *store) ListRegistrations(ctx context.Context, seasonID string, status RegistrationStatus) ([]Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT r.id, r.user_id, u.gamer_tag, r.season_id, r.primary_position, r.secondary_position, r.status, r.created_at
		FROM season_registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.season_id = ?`
	args := []any{seasonID}
	if status != "" {
		query += " AND r.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY r.created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := []Registration{}
	for rows.Next() {
		var r Registration
		if err := rows.Scan(&r.ID, &r.UserID, &r.GamerTag, &r.SeasonID, &r.PrimaryPosition, &r.SecondaryPosition, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

func (s *store) UpdateRegistrationStatus(ctx context.Context, id string, status RegistrationStatus) error {
	if !status.Valid() {
		return Validationf("unknown registration status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execAffectingOne(ctx, "update registration",
		"UPDATE season_registrations SET status = ? WHERE id = ?", status, id)
}
