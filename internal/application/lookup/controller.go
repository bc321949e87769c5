package lookup

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/shared"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

// Handle is the narrow view of the lookup engine given to the host
type Handle interface {
	// Enqueue hands a target to the worker. Never blocks, never fails.
	Enqueue(target *system.Target)
	// Status returns the latest display string
	Status() string
	// SetStatus lets the host overwrite the display string (e.g. "Waiting for data...")
	SetStatus(status string)
	// Stop shuts the worker down and waits for it to exit
	Stop()
}

// ErrWorkerNotRunning is returned by Drain when no worker is left to process queued targets
var ErrWorkerNotRunning = errors.New("lookup worker is not running")

// Controller owns the single lookup worker: it starts it, feeds it and joins it on shutdown.
type Controller struct {
	client system.CatalogClient
	queue  *Queue
	status *StatusSlot

	logger       common.Logger
	metrics      common.MetricsRecorder
	pollInterval time.Duration
	clock        shared.Clock

	mu     sync.Mutex
	joined *sync.Cond // signalled when a Stop finishes joining its worker
	worker *Worker
	cancel context.CancelFunc
	done   chan struct{}

	// stopping is set while Stop waits for the worker to finish its current target
	stopping bool
}

var _ Handle = (*Controller)(nil)

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithLogger sets the log sink shared by the controller and its worker
func WithLogger(logger common.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// WithMetrics sets the metrics recorder
func WithMetrics(metrics common.MetricsRecorder) ControllerOption {
	return func(c *Controller) { c.metrics = metrics }
}

// WithPollInterval overrides DefaultPollInterval
func WithPollInterval(d time.Duration) ControllerOption {
	return func(c *Controller) { c.pollInterval = d }
}

// WithClock sets the clock used to timestamp status updates
func WithClock(clock shared.Clock) ControllerOption {
	return func(c *Controller) { c.clock = clock }
}

// NewController creates a controller around client. The worker is not started.
func NewController(client system.CatalogClient, opts ...ControllerOption) *Controller {
	c := &Controller{
		client:       client,
		queue:        NewQueue(),
		logger:       common.NoOpLogger(),
		metrics:      common.NoOpMetrics(),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.status = NewStatusSlot(c.clock)
	c.joined = sync.NewCond(&c.mu)
	return c
}

// Start launches the worker goroutine. Calling Start while a worker exists is a no-op.
// A Start racing a Stop waits for the old worker to exit before launching a new one.
func (c *Controller) Start() Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.stopping {
		c.joined.Wait()
	}
	if c.worker != nil {
		return c
	}

	c.worker = NewWorker(c.client, c.queue, c.status, WorkerConfig{
		Logger:       c.logger,
		Metrics:      c.metrics,
		PollInterval: c.pollInterval,
	})
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})

	go func(w *Worker, done chan struct{}) {
		defer close(done)
		w.Run(ctx)
	}(c.worker, c.done)

	c.logger.Log(common.LevelInfo, "lookup worker started", nil)
	return c
}

// Stop sets the worker's exit flag and blocks until its goroutine has returned.
// Safe to call when the worker was never started, and more than once; a second
// concurrent Stop waits for the first to finish.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopping {
		for c.stopping {
			c.joined.Wait()
		}
		c.mu.Unlock()
		return
	}
	worker, done, cancel := c.worker, c.done, c.cancel
	if worker == nil {
		c.mu.Unlock()
		return
	}
	c.stopping = true
	c.mu.Unlock()

	c.logger.Log(common.LevelInfo, "lookup worker stopping", map[string]interface{}{
		"queued": c.queue.Len(),
	})
	worker.Quit()
	<-done
	cancel()

	c.mu.Lock()
	c.worker, c.done, c.cancel = nil, nil, nil
	c.stopping = false
	c.joined.Broadcast()
	c.mu.Unlock()

	c.logger.Log(common.LevelInfo, "lookup worker stopped", nil)
}

// Running reports whether a worker exists and has not been told to stop
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worker != nil && !c.stopping
}

// WorkerState returns the state of the current worker, WorkerStopped if there is none
func (c *Controller) WorkerState() WorkerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.worker == nil {
		return WorkerStopped
	}
	return c.worker.State()
}

// Enqueue hands a target to the worker. Accepted even during shutdown.
func (c *Controller) Enqueue(target *system.Target) {
	c.queue.Push(target)
	c.metrics.RecordQueueDepth(c.queue.Len())
}

// Status returns the latest display string
func (c *Controller) Status() string {
	return c.status.Get()
}

// StatusSnapshot returns the latest display string and when it was written
func (c *Controller) StatusSnapshot() (string, time.Time) {
	return c.status.Snapshot()
}

// SetStatus overwrites the display string
func (c *Controller) SetStatus(status string) {
	c.status.Set(status)
}

// Pending returns the number of enqueued targets not yet fully processed
func (c *Controller) Pending() int {
	return c.queue.Outstanding()
}

// Drain blocks until every enqueued target has been processed or ctx is done.
// It returns ErrWorkerNotRunning if targets remain and no worker is left to take them,
// including when the worker is stopped while Drain waits.
func (c *Controller) Drain(ctx context.Context) error {
	idle := c.queue.Idle()
	select {
	case <-idle:
		return nil
	default:
	}

	c.mu.Lock()
	done, running := c.done, c.worker != nil && !c.stopping
	c.mu.Unlock()
	if !running {
		return ErrWorkerNotRunning
	}

	select {
	case <-idle:
		return nil
	case <-done:
		// The worker may have finished the last target on its way out
		select {
		case <-idle:
			return nil
		default:
			return ErrWorkerNotRunning
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}
