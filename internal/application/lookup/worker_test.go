package lookup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/application/lookup"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
	"github.com/andrescamacho/edsm-checker-go/test/helpers"
)

const (
	solSystem = `{"name":"Sol","id64":10477373803,"coords":{"x":0,"y":0,"z":0}}`
	solBodies = `{"bodyCount":8,"bodies":[{},{},{},{},{},{},{},{}],"coordsLocked":true}`
)

func int64Ptr(v int64) *int64 { return &v }

func newTestWorker(client system.CatalogClient) (*lookup.Worker, *lookup.Queue, *helpers.RecordingStatusWriter) {
	queue := lookup.NewQueue()
	status := &helpers.RecordingStatusWriter{}
	w := lookup.NewWorker(client, queue, status, lookup.WorkerConfig{PollInterval: 5 * time.Millisecond})
	return w, queue, status
}

func TestWorker_Process_ResolvedTarget(t *testing.T) {
	// Arrange
	client := helpers.NewMockCatalogClient()
	client.SetSystem("Sol", solSystem)
	client.SetBodiesByAddress(10477373803, solBodies)
	w, _, status := newTestWorker(client)
	target := system.NewTarget("Sol", nil, nil)

	// Act
	outcome := w.Process(context.Background(), target)

	// Assert
	assert.Equal(t, common.OutcomeResolved, outcome)
	assert.Equal(t, []string{"", "Sol - Lock [8/8]"}, status.Writes())
	assert.Equal(t, []string{"system:Sol", "bodies:Sol"}, client.Calls())
	require.NotNil(t, target.Address)
	assert.Equal(t, int64(10477373803), *target.Address)
}

func TestWorker_Process_UnknownTargetSkipsBodies(t *testing.T) {
	client := helpers.NewMockCatalogClient()
	w, _, status := newTestWorker(client)

	outcome := w.Process(context.Background(), system.NewTarget("Unknown-X", nil, nil))

	assert.Equal(t, common.OutcomeUnknown, outcome)
	assert.Equal(t, []string{"Unknown-X - system unknown"}, status.Writes())
	assert.Equal(t, []string{"system:Unknown-X"}, client.Calls(), "no bodies query after failed resolution")
}

func TestWorker_Process_EmptyObjectCountsAsUnknown(t *testing.T) {
	client := helpers.NewMockCatalogClient()
	client.SetSystem("Ghost", `{}`)
	w, _, status := newTestWorker(client)

	outcome := w.Process(context.Background(), system.NewTarget("Ghost", nil, nil))

	assert.Equal(t, common.OutcomeUnknown, outcome)
	assert.Equal(t, []string{"Ghost - system unknown"}, status.Writes())
}

func TestWorker_Process_PermitWithoutLock(t *testing.T) {
	client := helpers.NewMockCatalogClient()
	client.SetSystem("Sol", `{"name":"Sol","id64":10477373803}`)
	client.SetBodiesByAddress(10477373803, `{"requirePermit":true,"bodyCount":3,"bodies":[1,2]}`)
	w, _, status := newTestWorker(client)

	w.Process(context.Background(), system.NewTarget("Sol", nil, nil))

	assert.Equal(t, "Sol - Permit [2/3]", status.NonEmpty()[0])
}

func TestWorker_Process_EmptyBodiesStillPublishes(t *testing.T) {
	client := helpers.NewMockCatalogClient()
	client.SetSystem("Sol", `{"name":"Sol","id64":10477373803}`)
	w, _, status := newTestWorker(client)

	outcome := w.Process(context.Background(), system.NewTarget("Sol", nil, nil))

	assert.Equal(t, common.OutcomeResolved, outcome)
	assert.Equal(t, []string{"", "Sol - [??/??]"}, status.Writes())
}

func TestWorker_Process_UnresolvableTargetIsSkipped(t *testing.T) {
	client := helpers.NewMockCatalogClient()
	w, _, status := newTestWorker(client)

	outcome := w.Process(context.Background(), system.NewTarget("", nil, nil))

	assert.Equal(t, common.OutcomeSkipped, outcome)
	assert.Empty(t, status.Writes())
	assert.Zero(t, client.CallCount())
}

func TestWorker_Process_AddressOnlyTargetUsesBodiesQuery(t *testing.T) {
	client := helpers.NewMockCatalogClient()
	client.SetBodiesByAddress(42, `{"name":"Achenar","bodyCount":2,"bodies":[1,2],"requirePermit":true,"coordsLocked":true}`)
	w, _, status := newTestWorker(client)

	outcome := w.Process(context.Background(), system.NewTarget("", int64Ptr(42), nil))

	assert.Equal(t, common.OutcomeResolved, outcome)
	assert.Equal(t, []string{"bodies:42"}, client.Calls())
	assert.Equal(t, "Achenar - Permit Lock [2/2]", status.NonEmpty()[0])
}

func TestWorker_Run_PublishesInQueueOrder(t *testing.T) {
	// Arrange
	client := helpers.NewMockCatalogClient()
	client.SetSystem("R1", `{"name":"R1"}`)
	client.SetSystem("R3", `{"name":"R3"}`)
	w, queue, status := newTestWorker(client)
	for _, name := range []string{"R1", "R2", "R3"} {
		queue.Push(system.NewTarget(name, nil, nil))
	}

	// Act
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(context.Background())
	}()
	require.Eventually(t, func() bool { return queue.Outstanding() == 0 }, 2*time.Second, 5*time.Millisecond)
	w.Quit()
	<-done

	// Assert
	assert.Equal(t, []string{"R1 - [??/??]", "R2 - system unknown", "R3 - [??/??]"}, status.NonEmpty())
	assert.Equal(t, lookup.WorkerStopped, w.State())
}

func TestWorker_Quit_NoWritesAfterRunReturns(t *testing.T) {
	// Arrange: the first lookup blocks inside the catalog call
	client := helpers.NewMockCatalogClient()
	client.SetSystem("R1", `{"name":"R1"}`)
	client.SetSystem("R2", `{"name":"R2"}`)
	started := client.Gate()
	w, queue, status := newTestWorker(client)
	queue.Push(system.NewTarget("R1", nil, nil))
	queue.Push(system.NewTarget("R2", nil, nil))

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(context.Background())
	}()
	<-started
	assert.Equal(t, lookup.WorkerProcessing, w.State())

	// Act: request exit while the call is in flight, then let it finish
	w.Quit()
	client.Release()
	<-done
	writes := status.Writes()
	time.Sleep(30 * time.Millisecond)

	// Assert: R1 completed, R2 never started
	assert.Equal(t, []string{"", "R1 - [??/??]"}, writes)
	assert.Equal(t, writes, status.Writes())
	assert.Equal(t, 1, queue.Len())
	assert.Equal(t, []string{"system:R1", "bodies:R1"}, client.Calls())
}

func TestWorker_Run_ContextCancelStopsPolling(t *testing.T) {
	w, _, _ := newTestWorker(helpers.NewMockCatalogClient())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	require.Eventually(t, func() bool { return w.State() == lookup.WorkerIdle }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not return after context cancellation")
	}
}

func TestWorker_Quit_Idempotent(t *testing.T) {
	w, _, _ := newTestWorker(helpers.NewMockCatalogClient())

	assert.NotPanics(t, func() {
		w.Quit()
		w.Quit()
	})
}

func TestWorkerState_String(t *testing.T) {
	assert.Equal(t, "idle", lookup.WorkerIdle.String())
	assert.Equal(t, "processing", lookup.WorkerProcessing.String())
	assert.Equal(t, "stopped", lookup.WorkerStopped.String())
	assert.Equal(t, "unknown", lookup.WorkerState(9).String())
}
