package csvimport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/metrics"
	"github.com/mauv0809/pro-clubs-league/internal/notifier"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
)

// Report describes the outcome of one import.
type Report struct {
	SeasonID string     `json:"season_id"`
	Kind     stats.Kind `json:"kind"`
	Imported int        `json:"imported"`
	Replaced int64      `json:"replaced"`
	Skipped  []Skip     `json:"skipped"`
}

// Importer loads season stat lines from CSV.
type Importer struct {
	db       *sql.DB
	mu       sync.Mutex
	now      func() time.Time
	metrics  metrics.Metrics
	counters metrics.MetricsStore
	notifier notifier.Notifier
}

func NewImporter(db *sql.DB, metrics metrics.Metrics, counters metrics.MetricsStore, notifier notifier.Notifier) *Importer {
	return &Importer{
		db:       db,
		now:      time.Now,
		metrics:  metrics,
		counters: counters,
		notifier: notifier,
	}
}

// Import upserts every parsed row in a single transaction. With replace set the
// season's existing lines of that kind are deleted first. Rows for unknown
// players, or rows the store rejects as invalid, are skipped and reported.
func (im *Importer) Import(ctx context.Context, seasonID string, kind stats.Kind, r io.Reader, replace bool) (*Report, error) {
	rows, skips, err := Parse(r, kind)
	if err != nil {
		return nil, err
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM seasons WHERE id = ?", seasonID).Scan(&exists); err != nil {
		return nil, league.TranslateError(err, "season "+seasonID)
	}

	known, err := playerIDs(ctx, tx)
	if err != nil {
		return nil, err
	}

	report := &Report{SeasonID: seasonID, Kind: kind, Skipped: skips}
	if replace {
		report.Replaced, err = stats.ClearSeason(ctx, tx, seasonID, kind)
		if err != nil {
			return nil, err
		}
	}

	now := im.now().Unix()
	for _, row := range rows {
		if !known[row.PlayerID] {
			report.Skipped = append(report.Skipped, Skip{Line: row.Line, Reason: "unknown player " + row.PlayerID})
			continue
		}
		if kind == stats.KindGoalie {
			err = stats.UpsertGoalie(ctx, tx, stats.GoalieLine{PlayerID: row.PlayerID, SeasonID: seasonID, TeamID: row.TeamID, GoalieCounts: row.Goalie}, now)
		} else {
			err = stats.UpsertSkater(ctx, tx, stats.SkaterLine{PlayerID: row.PlayerID, SeasonID: seasonID, TeamID: row.TeamID, SkaterCounts: row.Skater}, now)
		}
		if errors.Is(err, league.ErrValidation) {
			report.Skipped = append(report.Skipped, Skip{Line: row.Line, Reason: err.Error()})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.Line, err)
		}
		report.Imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}
	sort.SliceStable(report.Skipped, func(i, j int) bool { return report.Skipped[i].Line < report.Skipped[j].Line })

	im.metrics.AddCSVRows(report.Imported, len(report.Skipped))
	im.counters.Add(ctx, metrics.CounterCSVImported, report.Imported)
	im.counters.Add(ctx, metrics.CounterCSVSkipped, len(report.Skipped))
	log.Info("Imported season stats", "seasonID", seasonID, "kind", kind, "imported", report.Imported,
		"skipped", len(report.Skipped), "replaced", report.Replaced)

	if err := im.notifier.SendImportSummary(ctx, report.Summary(), false); err != nil {
		log.Error("Failed to send import summary", "error", err)
	}
	return report, nil
}

// Summary converts the report for notifiers.
func (r *Report) Summary() notifier.ImportSummary {
	reasons := make([]string, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		reasons = append(reasons, s.String())
	}
	return notifier.ImportSummary{
		SeasonID: r.SeasonID,
		Kind:     string(r.Kind),
		Imported: r.Imported,
		Skipped:  len(r.Skipped),
		Reasons:  reasons,
	}
}

// playerIDs loads every player id and closes the cursor before any write.
func playerIDs(ctx context.Context, tx *sql.Tx) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM players")
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	defer rows.Close()

	ids := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
