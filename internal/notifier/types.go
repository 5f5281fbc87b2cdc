package notifier

// MatchResult describes a final score recorded for a league match.
type MatchResult struct {
	MatchID    string
	EAMatchID  string
	SeasonName string
	HomeTeam   string
	AwayTeam   string
	HomeScore  int
	AwayScore  int
	Overtime   bool
	PlayedAt   int64
	// Stars are short performer lines such as "Sniper 2G 1A".
	Stars []string
}

// Winner returns the winning team name, or "" for a tie.
func (r MatchResult) Winner() string {
	switch {
	case r.HomeScore > r.AwayScore:
		return r.HomeTeam
	case r.AwayScore > r.HomeScore:
		return r.AwayTeam
	}
	return ""
}

// SyncSummary describes one EA ingestion run.
type SyncSummary struct {
	Clubs          int
	MatchesFetched int
	MatchesStored  int
	ResultsLinked  int
	Failures       []string
	DurationMs     int64
	DryRun         bool
}

// ImportSummary describes one CSV stat import.
type ImportSummary struct {
	SeasonID string
	Kind     string
	Imported int
	Skipped  int
	// Reasons holds a sample of skip reasons.
	Reasons []string
}
