package lookup

import (
	"sync"
	"time"

	"github.com/andrescamacho/edsm-checker-go/internal/domain/shared"
)

// StatusWriter receives display strings from the worker
type StatusWriter interface {
	Set(status string)
}

// StatusSlot holds the last published display string. Last writer wins;
// readers poll it on their own schedule.
type StatusSlot struct {
	mu        sync.RWMutex
	value     string
	updatedAt time.Time
	clock     shared.Clock
}

// NewStatusSlot creates an empty slot
// If clock is nil, uses RealClock
func NewStatusSlot(clock shared.Clock) *StatusSlot {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &StatusSlot{clock: clock}
}

// Set replaces the current status
func (s *StatusSlot) Set(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = status
	s.updatedAt = s.clock.Now()
}

// Get returns the current status
func (s *StatusSlot) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Snapshot returns the current status and when it was written (zero if never)
func (s *StatusSlot) Snapshot() (string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.updatedAt
}
