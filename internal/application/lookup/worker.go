package lookup

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

// DefaultPollInterval is how long an idle worker waits before polling the queue again
const DefaultPollInterval = 500 * time.Millisecond

// WorkerState is the lookup worker's position in its Idle/Processing cycle
type WorkerState int32

const (
	// WorkerIdle means the queue was empty at the last poll
	WorkerIdle WorkerState = iota
	// WorkerProcessing means a target is being looked up
	WorkerProcessing
	// WorkerStopped means Run has returned
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerProcessing:
		return "processing"
	case WorkerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Worker drains the target queue one record at a time, resolving each against the
// catalog and publishing a display string. Exactly one goroutine may call Run.
type Worker struct {
	name         string
	client       system.CatalogClient
	queue        *Queue
	status       StatusWriter
	logger       common.Logger
	metrics      common.MetricsRecorder
	pollInterval time.Duration

	exit  atomic.Bool
	quit  chan struct{}
	state atomic.Int32
}

// WorkerConfig carries the optional collaborators of a Worker
type WorkerConfig struct {
	Name         string
	Logger       common.Logger
	Metrics      common.MetricsRecorder
	PollInterval time.Duration
}

// NewWorker creates a worker reading from queue and writing to status
func NewWorker(client system.CatalogClient, queue *Queue, status StatusWriter, cfg WorkerConfig) *Worker {
	if cfg.Name == "" {
		cfg.Name = "LookupWorker"
	}
	if cfg.Logger == nil {
		cfg.Logger = common.NoOpLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = common.NoOpMetrics()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	w := &Worker{
		name:         cfg.Name,
		client:       client,
		queue:        queue,
		status:       status,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		pollInterval: cfg.PollInterval,
		quit:         make(chan struct{}),
	}
	w.logger.Log(common.LevelDebug, fmt.Sprintf("%s created", w.name), map[string]interface{}{
		"poll_interval": w.pollInterval.String(),
	})
	return w
}

// State returns the current worker state
func (w *Worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// QueueLen returns the number of targets waiting behind the one in hand
func (w *Worker) QueueLen() int {
	return w.queue.Len()
}

// Quit sets the exit flag. The worker finishes the record in hand (in-flight catalog
// calls are not interrupted) and returns from Run at its next poll.
func (w *Worker) Quit() {
	if w.exit.CompareAndSwap(false, true) {
		close(w.quit)
	}
}

// Run processes targets until Quit is called or ctx is cancelled.
// Cancelling ctx stops polling but never aborts a lookup already in progress.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Log(common.LevelDebug, fmt.Sprintf("%s start", w.name), nil)
	defer func() {
		w.state.Store(int32(WorkerStopped))
		w.logger.Log(common.LevelDebug, fmt.Sprintf("%s end", w.name), nil)
	}()

	queryCtx := context.WithoutCancel(ctx)
	timer := time.NewTimer(w.pollInterval)
	defer timer.Stop()

	for !w.exit.Load() {
		if ctx.Err() != nil {
			return
		}

		target, ok := w.queue.TryPop()
		if !ok {
			w.state.Store(int32(WorkerIdle))
			// Bounded wait so the exit flag is seen promptly
			timer.Reset(w.pollInterval)
			select {
			case <-timer.C:
			case <-w.quit:
			case <-ctx.Done():
			}
			continue
		}

		w.state.Store(int32(WorkerProcessing))
		w.metrics.RecordQueueDepth(w.queue.Len())
		w.Process(queryCtx, target)
		w.queue.Done()
		w.state.Store(int32(WorkerIdle))
	}
}

// Process runs the two-stage lookup protocol for one target and publishes its status.
func (w *Worker) Process(ctx context.Context, target *system.Target) common.LookupOutcome {
	start := time.Now()
	requestID := uuid.NewString()

	if !target.Resolvable() {
		w.logger.Log(common.LevelDebug, fmt.Sprintf("%s: skipping unresolvable target", w.name), map[string]interface{}{
			"request_id": requestID,
		})
		w.metrics.RecordLookup(common.OutcomeSkipped, time.Since(start))
		return common.OutcomeSkipped
	}

	w.logger.Log(common.LevelDebug, fmt.Sprintf("%s: lookup begin", w.name), map[string]interface{}{
		"request_id": requestID,
		"target":     target.DisplayName(),
	})

	outcome := w.lookup(ctx, target)

	w.metrics.RecordLookup(outcome, time.Since(start))
	w.logger.Log(common.LevelDebug, fmt.Sprintf("%s: lookup end", w.name), map[string]interface{}{
		"request_id":  requestID,
		"target":      target.DisplayName(),
		"outcome":     string(outcome),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return outcome
}

func (w *Worker) lookup(ctx context.Context, target *system.Target) common.LookupOutcome {
	// Resolution needs a name; an address-only target resolves through its bodies query
	resolve := w.client.SystemQuery
	addressOnly := target.Name == ""
	if addressOnly {
		resolve = w.client.BodiesQuery
	}

	resolved := resolve(ctx, target)
	if resolved.IsEmpty() {
		w.status.Set(target.UnknownStatus())
		return common.OutcomeUnknown
	}

	w.status.Set("")
	target.Update(resolved)

	if !addressOnly {
		bodies := w.client.BodiesQuery(ctx, target)
		if !bodies.IsEmpty() {
			target.Update(bodies)
		}
	}

	w.logger.Log(common.LevelDebug, fmt.Sprintf("%s: system information: %s", w.name, target), nil)
	w.status.Set(target.StatusLine())
	return common.OutcomeResolved
}
