package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// knownCounters are always reported, at zero until first incremented.
var knownCounters = []string{
	CounterSyncRuns,
	CounterMatchesIngested,
	CounterCSVImported,
	CounterCSVSkipped,
}

// counterStore persists league activity counters in the metrics table.
type counterStore struct {
	db      *sql.DB
	writeMu sync.Mutex
}

func NewCounterStore(db *sql.DB) MetricsStore {
	return &counterStore{db: db}
}

// Add increments key by delta. Counters are best effort, so failures are
// logged rather than returned.
func (s *counterStore) Add(ctx context.Context, key string, delta int) {
	if delta == 0 {
		return
	}
	s.writeMu.Lock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metrics (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = value + excluded.value`, key, delta)
	s.writeMu.Unlock()
	if err != nil {
		log.Error("Failed to bump counter", "error", err, "key", key, "delta", delta)
		return
	}
	log.Debug("Bumped counter", "key", key, "delta", delta)
}

// GetAll snapshots every stored counter plus the known ones not yet bumped.
func (s *counterStore) GetAll(ctx context.Context) (map[string]int, error) {
	counters := make(map[string]int, len(knownCounters))
	for _, key := range knownCounters {
		counters[key] = 0
	}

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM metrics")
	if err != nil {
		return nil, fmt.Errorf("query counters: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key   string
			value int
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		counters[key] = value
	}
	return counters, rows.Err()
}
