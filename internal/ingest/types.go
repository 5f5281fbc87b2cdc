package ingest

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/pro-clubs-league/internal/ea"
	"github.com/mauv0809/pro-clubs-league/internal/metrics"
	"github.com/mauv0809/pro-clubs-league/internal/notifier"
	"github.com/mauv0809/pro-clubs-league/internal/pubsub"
)

// store handles the ea_* tables.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Service fetches EA matches for league clubs and folds them into league data.
type Service struct {
	store       Store
	league      LeagueStore
	client      ea.EAClient
	pubsub      pubsub.Publisher
	notifier    notifier.Notifier
	metrics     metrics.Metrics
	counters    metrics.MetricsStore
	concurrency int

	// writeMu serializes the store-and-link step so two clubs sharing a match
	// cannot link it twice.
	writeMu sync.Mutex
}

// StoredMatch is an ea_match_data row without its raw payload.
type StoredMatch struct {
	EAMatchID     string `json:"ea_match_id"`
	PlayedAt      int64  `json:"played_at"`
	HomeClubID    string `json:"home_club_id"`
	AwayClubID    string `json:"away_club_id"`
	LinkedMatchID string `json:"linked_match_id,omitempty"`
	FetchedAt     int64  `json:"fetched_at"`
}

// PlayerRow is an ea_player_stats row.
type PlayerRow struct {
	ea.PlayerLine
	PlayerID string `json:"player_id,omitempty"`
}

// ClubReport is the outcome of syncing one club.
type ClubReport struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	EAClubID string `json:"ea_club_id"`
	Fetched  int    `json:"fetched"`
	Stored   int    `json:"stored"`
	New      int    `json:"new"`
	Linked   int    `json:"linked"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// SyncReport aggregates one sync run.
type SyncReport struct {
	Clubs          []ClubReport `json:"clubs"`
	MatchesFetched int          `json:"matches_fetched"`
	MatchesStored  int          `json:"matches_stored"`
	ResultsLinked  int          `json:"results_linked"`
	Failures       []string     `json:"failures"`
	DurationMs     int64        `json:"duration_ms"`
	DryRun         bool         `json:"dry_run"`
}

func (r *SyncReport) add(c ClubReport) {
	r.Clubs = append(r.Clubs, c)
	r.MatchesFetched += c.Fetched
	r.MatchesStored += c.Stored
	r.ResultsLinked += c.Linked
	if c.Error != "" {
		r.Failures = append(r.Failures, c.TeamName+": "+c.Error)
	}
}

// Summary converts the report for notifiers.
func (r *SyncReport) Summary() notifier.SyncSummary {
	return notifier.SyncSummary{
		Clubs:          len(r.Clubs),
		MatchesFetched: r.MatchesFetched,
		MatchesStored:  r.MatchesStored,
		ResultsLinked:  r.ResultsLinked,
		Failures:       r.Failures,
		DurationMs:     r.DurationMs,
		DryRun:         r.DryRun,
	}
}
