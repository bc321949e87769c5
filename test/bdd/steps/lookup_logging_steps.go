package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/andrescamacho/edsm-checker-go/internal/adapters/logging"
	"github.com/andrescamacho/edsm-checker-go/internal/adapters/persistence"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/shared"
	"github.com/andrescamacho/edsm-checker-go/internal/infrastructure/database"
	"github.com/andrescamacho/edsm-checker-go/test/helpers"
)

// lookupLoggingContext holds state for log persistence scenarios
type lookupLoggingContext struct {
	db        *gorm.DB
	repo      *persistence.GormLookupLogRepository
	clock     *shared.MockClock
	now       time.Time
	relay     *logging.Relay
	sink      *helpers.RecordingLogger
	sessionID string
	pruned    int64
}

func (llc *lookupLoggingContext) reset() {
	if llc.relay != nil {
		llc.relay.Close()
	}
	if llc.db != nil {
		_ = database.Close(llc.db)
	}
	llc.now = time.Date(3310, 5, 1, 12, 0, 0, 0, time.UTC)
	llc.clock = shared.NewMockClock(llc.now)
	llc.db = nil
	llc.repo = nil
	llc.relay = nil
	llc.sink = nil
	llc.sessionID = ""
	llc.pruned = 0
}

// ============================================================================
// Setup Steps
// ============================================================================

func (llc *lookupLoggingContext) aLookupLogRepositoryWithInMemoryDatabase() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to create test database: %w", err)
	}
	llc.db = db
	llc.repo = persistence.NewGormLookupLogRepository(db, llc.clock)
	return nil
}

func (llc *lookupLoggingContext) aLogRelayForSession(sessionID string) error {
	llc.sessionID = sessionID
	llc.sink = &helpers.RecordingLogger{}
	llc.relay = logging.NewRelay(llc.sink,
		logging.WithRepository(llc.repo, sessionID),
		logging.WithRelayClock(llc.clock),
	)
	return nil
}

func (llc *lookupLoggingContext) theRepositoryHoldsTheMessageFromHoursAgo(level, message string, hours int) error {
	llc.clock.SetTime(llc.now.Add(-time.Duration(hours) * time.Hour))
	defer llc.clock.SetTime(llc.now)
	return llc.repo.Log(context.Background(), llc.sessionID, message, level, nil)
}

// ============================================================================
// Action Steps
// ============================================================================

func (llc *lookupLoggingContext) iRelayMessages(count int, level string) error {
	for i := 0; i < count; i++ {
		llc.relay.Log(level, fmt.Sprintf("%s message %d", level, i+1), map[string]interface{}{"index": i})
	}
	return nil
}

func (llc *lookupLoggingContext) iRelayTheMessageTimes(level, message string, count int) error {
	for i := 0; i < count; i++ {
		llc.relay.Log(level, message, nil)
	}
	return nil
}

func (llc *lookupLoggingContext) iCloseTheRelay() error {
	llc.relay.Close()
	return nil
}

func (llc *lookupLoggingContext) iPruneEntriesOlderThanHours(hours int) error {
	removed, err := llc.repo.Prune(context.Background(), llc.now.Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return err
	}
	llc.pruned = removed
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (llc *lookupLoggingContext) theSessionShouldHavePersistedLogEntries(sessionID string, expected int) error {
	entries, err := llc.repo.GetLogs(context.Background(), sessionID, 0, 0, nil, nil)
	if err != nil {
		return err
	}
	if len(entries) != expected {
		return fmt.Errorf("expected %d persisted entries, got %d", expected, len(entries))
	}
	return nil
}

func (llc *lookupLoggingContext) theRelaySinkShouldHaveReceivedRecords(expected int) error {
	if actual := len(llc.sink.Entries()); actual != expected {
		return fmt.Errorf("expected sink to receive %d records, got %d", expected, actual)
	}
	return nil
}

func (llc *lookupLoggingContext) queryingSessionForLevelShouldReturnEntry(sessionID, level string, expected int) error {
	entries, err := llc.repo.GetLogs(context.Background(), sessionID, 0, 0, &level, nil)
	if err != nil {
		return err
	}
	if len(entries) != expected {
		return fmt.Errorf("expected %d %s entries, got %d", expected, level, len(entries))
	}
	for _, e := range entries {
		if e.Level != level {
			return fmt.Errorf("expected level %s, got %s", level, e.Level)
		}
	}
	return nil
}

func (llc *lookupLoggingContext) entryShouldHaveBeenPruned(expected int) error {
	if llc.pruned != int64(expected) {
		return fmt.Errorf("expected %d pruned entries, got %d", expected, llc.pruned)
	}
	return nil
}

// InitializeLookupLoggingScenario registers log persistence steps
func InitializeLookupLoggingScenario(sc *godog.ScenarioContext) {
	llc := &lookupLoggingContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		llc.reset()
		return ctx, nil
	})
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		llc.reset()
		return ctx, nil
	})

	// Setup steps
	sc.Step(`^a lookup log repository with in-memory database$`, llc.aLookupLogRepositoryWithInMemoryDatabase)
	sc.Step(`^a log relay for session "([^"]*)"$`, llc.aLogRelayForSession)
	sc.Step(`^the repository holds the (DEBUG|INFO|WARNING|ERROR) message "([^"]*)" from (\d+) hours ago$`, llc.theRepositoryHoldsTheMessageFromHoursAgo)

	// Action steps
	sc.Step(`^I relay (\d+) (DEBUG|INFO|WARNING|ERROR) messages$`, llc.iRelayMessages)
	sc.Step(`^I relay the (DEBUG|INFO|WARNING|ERROR) message "([^"]*)" (\d+) times$`, llc.iRelayTheMessageTimes)
	sc.Step(`^I close the relay$`, llc.iCloseTheRelay)
	sc.Step(`^I prune entries older than (\d+) hours$`, llc.iPruneEntriesOlderThanHours)

	// Assertion steps
	sc.Step(`^the session "([^"]*)" should have (\d+) persisted log entr(?:y|ies)$`, llc.theSessionShouldHavePersistedLogEntries)
	sc.Step(`^the relay sink should have received (\d+) records$`, llc.theRelaySinkShouldHaveReceivedRecords)
	sc.Step(`^querying session "([^"]*)" for level "([^"]*)" should return (\d+) entr(?:y|ies)$`, llc.queryingSessionForLevelShouldReturnEntry)
	sc.Step(`^(\d+) entr(?:y|ies) should have been pruned$`, llc.entryShouldHaveBeenPruned)
}
