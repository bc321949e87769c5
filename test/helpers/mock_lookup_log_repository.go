package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/edsm-checker-go/internal/adapters/persistence"
)

// MockLookupLogRepository is an in-memory implementation of LookupLogRepository for testing
type MockLookupLogRepository struct {
	mu     sync.Mutex
	Logs   map[string][]persistence.LookupLogEntry // key: session_id
	LogErr error
}

var _ persistence.LookupLogRepository = (*MockLookupLogRepository)(nil)

// NewMockLookupLogRepository creates a new mock lookup log repository
func NewMockLookupLogRepository() *MockLookupLogRepository {
	return &MockLookupLogRepository{
		Logs: make(map[string][]persistence.LookupLogEntry),
	}
}

// Log writes a log entry (in-memory only for testing)
func (m *MockLookupLogRepository) Log(ctx context.Context, sessionID, message, level string, metadata map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LogErr != nil {
		return m.LogErr
	}

	m.Logs[sessionID] = append(m.Logs[sessionID], persistence.LookupLogEntry{
		SessionID: sessionID,
		Message:   message,
		Level:     level,
		Metadata:  metadata,
		Timestamp: time.Now(),
	})
	return nil
}

// GetLogs returns a session's entries in insertion order, ignoring filters
func (m *MockLookupLogRepository) GetLogs(ctx context.Context, sessionID string, limit, offset int, level *string, since *time.Time) ([]persistence.LookupLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logs := m.Logs[sessionID]
	out := make([]persistence.LookupLogEntry, len(logs))
	copy(out, logs)
	return out, nil
}

// Prune is a no-op
func (m *MockLookupLogRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

// Messages returns the messages logged for a session, in order
func (m *MockLookupLogRepository) Messages(sessionID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.Logs[sessionID] {
		out = append(out, e.Message)
	}
	return out
}
