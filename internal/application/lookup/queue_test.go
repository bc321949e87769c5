package lookup_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/edsm-checker-go/internal/application/lookup"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/shared"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

func TestQueue_FIFO(t *testing.T) {
	q := lookup.NewQueue()
	for _, name := range []string{"R1", "R2", "R3"} {
		q.Push(system.NewTarget(name, nil, nil))
	}

	var got []string
	for {
		target, ok := q.TryPop()
		if !ok {
			break
		}
		got = append(got, target.Name)
	}

	assert.Equal(t, []string{"R1", "R2", "R3"}, got)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 3, q.Outstanding(), "popped but not done")
}

func TestQueue_DoneTracksOutstanding(t *testing.T) {
	q := lookup.NewQueue()
	q.Push(system.NewTarget("Sol", nil, nil))

	_, ok := q.TryPop()
	require.True(t, ok)
	q.Done()
	q.Done()

	assert.Equal(t, 0, q.Outstanding())
}

func TestQueue_IdleClosesWhenLastTargetIsDone(t *testing.T) {
	q := lookup.NewQueue()
	assertClosed(t, q.Idle(), "empty queue is idle")

	q.Push(system.NewTarget("R1", nil, nil))
	q.Push(system.NewTarget("R2", nil, nil))
	idle := q.Idle()
	assertOpen(t, idle)

	q.TryPop()
	q.Done()
	assertOpen(t, idle)

	q.TryPop()
	q.Done()
	assertClosed(t, idle, "all targets done")

	q.Push(system.NewTarget("R3", nil, nil))
	assertOpen(t, q.Idle())
}

func assertClosed(t *testing.T, ch <-chan struct{}, msg string) {
	t.Helper()
	select {
	case <-ch:
	default:
		t.Fatalf("expected closed channel: %s", msg)
	}
}

func assertOpen(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
		t.Fatal("expected open channel")
	default:
	}
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := lookup.NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(system.NewTarget("X", nil, nil))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, q.Len())
}

func TestStatusSlot_LastWriterWins(t *testing.T) {
	clock := shared.NewMockClock(shared.NewRealClock().Now())
	slot := lookup.NewStatusSlot(clock)

	value, at := slot.Snapshot()
	assert.Equal(t, "", value)
	assert.True(t, at.IsZero())

	slot.Set("Sol - [??/??]")
	slot.Set("Sol - Lock [8/8]")

	value, at = slot.Snapshot()
	assert.Equal(t, "Sol - Lock [8/8]", value)
	assert.Equal(t, clock.Now(), at)
	assert.Equal(t, "Sol - Lock [8/8]", slot.Get())
}
