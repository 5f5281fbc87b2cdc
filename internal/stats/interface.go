package stats

import (
	"context"
	"database/sql"
)

// Store defines the interface for season statistics.
type Store interface {
	UpsertSkaterSeason(ctx context.Context, line SkaterLine) error
	UpsertGoalieSeason(ctx context.Context, line GoalieLine) error
	DeleteSkaterSeason(ctx context.Context, playerID, seasonID string) error
	DeleteGoalieSeason(ctx context.Context, playerID, seasonID string) error
	ListSkaterSeason(ctx context.Context, seasonID, teamID string) ([]SkaterLine, error)
	ListGoalieSeason(ctx context.Context, seasonID, teamID string) ([]GoalieLine, error)
	PlayerSkaterHistory(ctx context.Context, playerID string) ([]SkaterLine, error)
	PlayerGoalieHistory(ctx context.Context, playerID string) ([]GoalieLine, error)
	SkaterLeaders(ctx context.Context, seasonID string, limit int) ([]SkaterLine, error)
	RebuildFromEA(ctx context.Context, seasonID string) (*RebuildReport, error)
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
