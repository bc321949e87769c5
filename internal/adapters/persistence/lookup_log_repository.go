package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/edsm-checker-go/internal/domain/shared"
)

// LookupLogRepository manages persisted lookup trace lines
type LookupLogRepository interface {
	// Log writes a log entry to the database with deduplication
	Log(ctx context.Context, sessionID, message, level string, metadata map[string]interface{}) error

	// GetLogs retrieves logs for a session, newest first, with optional filtering and paging
	GetLogs(ctx context.Context, sessionID string, limit, offset int, level *string, since *time.Time) ([]LookupLogEntry, error)

	// Prune deletes entries older than before and returns how many were removed
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// LookupLogEntry represents a log entry
type LookupLogEntry struct {
	ID        int
	SessionID string
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// GormLookupLogRepository is a GORM-based implementation
type GormLookupLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	// Repeated identical lines within dedupWindow are stored once
	dedupCache   map[string]time.Time // key: sessionID|level|message|metadata
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

var _ LookupLogRepository = (*GormLookupLogRepository)(nil)

// NewGormLookupLogRepository creates a new lookup log repository
// If clock is nil, uses RealClock (production behavior)
func NewGormLookupLogRepository(db *gorm.DB, clock shared.Clock) *GormLookupLogRepository {
	return NewGormLookupLogRepositoryWithWindow(db, clock, 60*time.Second)
}

// NewGormLookupLogRepositoryWithWindow creates a repository with a custom deduplication window.
// A zero window disables deduplication.
func NewGormLookupLogRepositoryWithWindow(db *gorm.DB, clock shared.Clock, window time.Duration) *GormLookupLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormLookupLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  window,
		dedupMaxSize: 10000,
	}
}

// Log writes a log entry with time-windowed deduplication
func (r *GormLookupLogRepository) Log(ctx context.Context, sessionID, message, level string, metadata map[string]interface{}) error {
	now := r.clock.Now()

	var metadataJSON string
	if len(metadata) > 0 {
		// Metadata is optional; unencodable values drop it rather than the line
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	// Lines that differ only in metadata (target, request id) are distinct lines
	key := sessionID + "|" + level + "|" + message + "|" + metadataJSON
	if r.isDuplicate(key, now) {
		return nil
	}

	entry := &LookupLogModel{
		SessionID: sessionID,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to persist log entry: %w", err)
	}
	r.remember(key, now)
	return nil
}

// isDuplicate reports whether key was written within the dedup window
func (r *GormLookupLogRepository) isDuplicate(key string, now time.Time) bool {
	if r.dedupWindow <= 0 {
		return false
	}

	r.dedupMu.Lock()
	defer r.dedupMu.Unlock()

	lastLogged, exists := r.dedupCache[key]
	return exists && now.Sub(lastLogged) < r.dedupWindow
}

// remember records a successful write of key
func (r *GormLookupLogRepository) remember(key string, now time.Time) {
	if r.dedupWindow <= 0 {
		return
	}

	r.dedupMu.Lock()
	defer r.dedupMu.Unlock()

	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[key] = now
}

// cleanupDedupCache removes expired entries from the deduplication cache
// Must be called while holding dedupMu lock
func (r *GormLookupLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves logs for a session with optional filtering and paging.
// An empty sessionID matches every session.
func (r *GormLookupLogRepository) GetLogs(ctx context.Context, sessionID string, limit, offset int, level *string, since *time.Time) ([]LookupLogEntry, error) {
	var models []LookupLogModel

	query := r.db.WithContext(ctx).Model(&LookupLogModel{})
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if since != nil {
		query = query.Where("timestamp > ?", *since)
	}

	query = query.Order("timestamp DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query lookup logs: %w", err)
	}

	entries := make([]LookupLogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}

		entries[i] = LookupLogEntry{
			ID:        model.ID,
			SessionID: model.SessionID,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}

	return entries, nil
}

// Prune deletes entries older than before
func (r *GormLookupLogRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("timestamp < ?", before).Delete(&LookupLogModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune lookup logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
