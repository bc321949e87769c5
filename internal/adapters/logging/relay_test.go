package logging_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/andrescamacho/edsm-checker-go/internal/adapters/logging"
	"github.com/andrescamacho/edsm-checker-go/internal/adapters/persistence"
	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/application/lookup"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
	"github.com/andrescamacho/edsm-checker-go/test/helpers"
)

func TestRelay_DeliversInOrderAndDrainsOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Arrange
	sink := &helpers.RecordingLogger{}
	repo := helpers.NewMockLookupLogRepository()
	relay := logging.NewRelay(sink, logging.WithRepository(repo, "session-1"))

	// Act
	for i := 0; i < 100; i++ {
		relay.Log(common.LevelDebug, fmt.Sprintf("line %d", i), nil)
	}
	relay.Close()

	// Assert
	entries := sink.Entries()
	require.Len(t, entries, 100)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("line %d", i), e.Message)
	}
	assert.Len(t, repo.Messages("session-1"), 100)
	assert.Zero(t, relay.Pending())
}

func TestRelay_LogAfterCloseIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &helpers.RecordingLogger{}
	relay := logging.NewRelay(sink)
	relay.Log(common.LevelInfo, "before", nil)
	relay.Close()

	relay.Log(common.LevelInfo, "after", nil)
	relay.Close()

	entries := sink.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "before", entries[0].Message)
}

func TestRelay_ConcurrentProducers(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &helpers.RecordingLogger{}
	relay := logging.NewRelay(sink)

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				relay.Log(common.LevelDebug, fmt.Sprintf("p%d-%d", p, i), nil)
			}
		}(p)
	}
	wg.Wait()
	relay.Close()

	assert.Len(t, sink.Entries(), 200)
}

func TestRelay_PersistFailureIsReportedToSink(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &helpers.RecordingLogger{}
	repo := helpers.NewMockLookupLogRepository()
	repo.LogErr = errors.New("disk full")
	relay := logging.NewRelay(sink, logging.WithRepository(repo, "s"))

	relay.Log(common.LevelInfo, "hello", map[string]interface{}{"k": "v"})
	relay.Close()

	entries := sink.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "hello", entries[0].Message)
	assert.Equal(t, "v", entries[0].Metadata["k"])
	assert.Equal(t, common.LevelError, entries[1].Level)
	assert.Equal(t, "disk full", entries[1].Metadata["error"])
}

func TestRelay_CloseWithoutRecords(t *testing.T) {
	defer goleak.VerifyNone(t)

	relay := logging.NewRelay(nil)

	assert.NotPanics(t, relay.Close)
}

func TestRelay_PersistsBeginAndEndForEveryLookup(t *testing.T) {
	// Arrange
	repo := persistence.NewGormLookupLogRepository(helpers.NewTestDB(t), nil)
	relay := logging.NewRelay(common.NoOpLogger(), logging.WithRepository(repo, "session-1"))
	client := helpers.NewMockCatalogClient()
	client.SetSystem("Sol", `{"name":"Sol","id64":10477373803}`)
	client.SetSystem("Achenar", `{"name":"Achenar","id64":164098653}`)
	worker := lookup.NewWorker(client, lookup.NewQueue(), &helpers.RecordingStatusWriter{}, lookup.WorkerConfig{
		Logger:       relay,
		PollInterval: 5 * time.Millisecond,
	})

	// Act
	worker.Process(context.Background(), system.NewTarget("Sol", nil, nil))
	worker.Process(context.Background(), system.NewTarget("Achenar", nil, nil))
	relay.Close()

	// Assert
	entries, err := repo.GetLogs(context.Background(), "session-1", 0, 0, nil, nil)
	require.NoError(t, err)
	begins := map[string]int{}
	ends := map[string]int{}
	for _, e := range entries {
		target, _ := e.Metadata["target"].(string)
		switch {
		case strings.HasSuffix(e.Message, "lookup begin"):
			begins[target]++
		case strings.HasSuffix(e.Message, "lookup end"):
			ends[target]++
		}
	}
	assert.Equal(t, map[string]int{"Sol": 1, "Achenar": 1}, begins)
	assert.Equal(t, map[string]int{"Sol": 1, "Achenar": 1}, ends)
}
