package metrics

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu              sync.Mutex
	syncRuns        int
	matchesIngested int
	syncDurations   []float64
	csvImported     int
	csvSkipped      int
	notifSent       map[string]int
	notifFailed     map[string]int
	startupTime     float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		syncDurations: make([]float64, 0),
		notifSent:     map[string]int{},
		notifFailed:   map[string]int{},
	}
}

func (m *Mock) IncSyncRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncRuns++
}

func (m *Mock) AddMatchesIngested(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesIngested += n
}

func (m *Mock) ObserveSyncDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncDurations = append(m.syncDurations, seconds)
}

func (m *Mock) AddCSVRows(imported, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.csvImported += imported
	m.csvSkipped += skipped
}

func (m *Mock) IncNotifSent(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent[channel]++
}

func (m *Mock) IncNotifFailed(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed[channel]++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SyncRuns returns the number of times IncSyncRuns was called.
func (m *Mock) SyncRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncRuns
}

// MatchesIngested returns the sum passed to AddMatchesIngested.
func (m *Mock) MatchesIngested() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesIngested
}

// CSVRows returns the imported and skipped totals.
func (m *Mock) CSVRows() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.csvImported, m.csvSkipped
}

// NotifSent returns the number of successful sends on a channel.
func (m *Mock) NotifSent(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent[channel]
}

// NotifFailed returns the number of failed sends on a channel.
func (m *Mock) NotifFailed(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed[channel]
}

// MockStore is an in-memory MetricsStore.
type MockStore struct {
	mu     sync.Mutex
	values map[string]int
}

func NewMockStore() *MockStore {
	return &MockStore{values: map[string]int{}}
}

func (m *MockStore) Add(ctx context.Context, key string, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if delta != 0 {
		m.values[key] += delta
	}
}

func (m *MockStore) GetAll(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}
