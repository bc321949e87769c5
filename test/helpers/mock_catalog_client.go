package helpers

import (
	"context"
	"strconv"
	"sync"

	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

// MockCatalogClient is a test double for system.CatalogClient.
// Unknown targets answer with a nil payload, like a failed catalog call.
type MockCatalogClient struct {
	mu sync.Mutex

	systems map[string]string // name -> resolution payload
	bodies  map[string]string // name or "id64:<address>" -> bodies payload

	// Call tracking, in order
	calls []string

	// Optional gate: when set, every query signals Started then waits for Release
	gate     chan struct{}
	started  chan string
	released bool
}

// NewMockCatalogClient creates a mock with no known systems
func NewMockCatalogClient() *MockCatalogClient {
	return &MockCatalogClient{
		systems: make(map[string]string),
		bodies:  make(map[string]string),
	}
}

// SetSystem configures the resolution answer for name
func (m *MockCatalogClient) SetSystem(name, payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systems[name] = payload
}

// SetBodies configures the bodies answer for name
func (m *MockCatalogClient) SetBodies(name, payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies[name] = payload
}

// SetBodiesByAddress configures the bodies answer for a catalog address
func (m *MockCatalogClient) SetBodiesByAddress(address int64, payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies[addressKey(address)] = payload
}

// Gate makes every query block until Release is called.
// The returned channel receives the kind of each query as it starts.
func (m *MockCatalogClient) Gate() <-chan string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
	m.started = make(chan string, 64)
	m.released = false
	return m.started
}

// Release unblocks all gated queries, current and future
func (m *MockCatalogClient) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gate != nil && !m.released {
		close(m.gate)
		m.released = true
	}
}

// Calls returns the queries issued so far, as "system:<name>" or "bodies:<name>"
func (m *MockCatalogClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of queries issued so far
func (m *MockCatalogClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// SystemQuery implements system.CatalogClient
func (m *MockCatalogClient) SystemQuery(ctx context.Context, target *system.Target) system.Payload {
	m.wait("system")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "system:"+target.DisplayName())
	if p, ok := m.systems[target.Name]; ok {
		return system.Payload(p)
	}
	return nil
}

// BodiesQuery implements system.CatalogClient
func (m *MockCatalogClient) BodiesQuery(ctx context.Context, target *system.Target) system.Payload {
	m.wait("bodies")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "bodies:"+target.DisplayName())
	if target.Address != nil {
		if p, ok := m.bodies[addressKey(*target.Address)]; ok {
			return system.Payload(p)
		}
	}
	if p, ok := m.bodies[target.Name]; ok {
		return system.Payload(p)
	}
	return nil
}

func (m *MockCatalogClient) wait(kind string) {
	m.mu.Lock()
	gate, started := m.gate, m.started
	m.mu.Unlock()
	if gate == nil {
		return
	}
	started <- kind
	<-gate
}

func addressKey(address int64) string {
	return "id64:" + strconv.FormatInt(address, 10)
}

// RecordingStatusWriter keeps every status string written to it
type RecordingStatusWriter struct {
	mu     sync.Mutex
	writes []string
}

// Set implements lookup.StatusWriter
func (r *RecordingStatusWriter) Set(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, status)
}

// Writes returns all statuses written so far
func (r *RecordingStatusWriter) Writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.writes))
	copy(out, r.writes)
	return out
}

// NonEmpty returns the written statuses, skipping the "" clears
func (r *RecordingStatusWriter) NonEmpty() []string {
	var out []string
	for _, w := range r.Writes() {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// LogEntry is one line captured by RecordingLogger
type LogEntry struct {
	Level    string
	Message  string
	Metadata map[string]interface{}
}

// RecordingLogger is a common.Logger that keeps every entry in memory
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Log implements common.Logger
func (l *RecordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: message, Metadata: metadata})
}

// Entries returns the captured entries
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
