package league

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new league Store.
func New(db *sql.DB) Store {
	return &store{
		db:  db,
		now: time.Now,
	}
}

var _ Store = (*store)(nil)

func (s *store) CreateConference(ctx context.Context, name, description string) (*Conference, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Validationf("conference name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Conference{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   s.now().Unix(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO conferences (id, name, description, created_at) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, c.Description, c.CreatedAt)
	if err != nil {
		return nil, TranslateError(err, "create conference")
	}
	log.Info("Created conference", "conferenceID", c.ID, "name", c.Name)
	return c, nil
}

func (s *store) ListConferences(ctx context.Context) ([]Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, description, created_at FROM conferences ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conferences := []Conference{}
	for rows.Next() {
		var c Conference
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		conferences = append(conferences, c)
	}
	return conferences, rows.Err()
}

func (s *store) DeleteConference(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execAffectingOne(ctx, "delete conference", "DELETE FROM conferences WHERE id = ?", id)
}

func (s *store) GetSetting(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM system_settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", TranslateError(err, "setting "+key)
	}
	return value, nil
}

func (s *store) SetSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setSettingLocked(ctx, key, value)
}

func (s *store) setSettingLocked(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().Unix())
	if err != nil {
		return TranslateError(err, "set setting "+key)
	}
	log.Info("Updated system setting", "key", key, "value", value)
	return nil
}

// execAffectingOne runs a write and reports ErrNotFound when no row changed.
func (s *store) execAffectingOne(ctx context.Context, what, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return TranslateError(err, what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return TranslateError(sql.ErrNoRows, what)
	}
	return nil
}
