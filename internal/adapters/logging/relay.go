package logging

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/edsm-checker-go/internal/adapters/persistence"
	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/shared"
)

// Record is one queued log line. A nil *Record is the shutdown sentinel.
type Record struct {
	Level    string
	Message  string
	Metadata map[string]interface{}
	Time     time.Time
}

// Relay moves log lines off the caller's goroutine. Log only enqueues; a single
// background goroutine delivers each record to the sink and, when configured,
// to the lookup log repository, in the order they were logged.
type Relay struct {
	sink      common.Logger
	repo      persistence.LookupLogRepository
	sessionID string
	clock     shared.Clock
	timeout   time.Duration

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*Record
	closed bool
	done   chan struct{}
}

var _ common.Logger = (*Relay)(nil)

// RelayOption configures a Relay
type RelayOption func(*Relay)

// WithRepository also persists every record under sessionID
func WithRepository(repo persistence.LookupLogRepository, sessionID string) RelayOption {
	return func(r *Relay) {
		r.repo = repo
		r.sessionID = sessionID
	}
}

// WithRelayClock sets the clock used to timestamp records
func WithRelayClock(clock shared.Clock) RelayOption {
	return func(r *Relay) { r.clock = clock }
}

// WithPersistTimeout bounds each repository write
func WithPersistTimeout(d time.Duration) RelayOption {
	return func(r *Relay) { r.timeout = d }
}

// NewRelay starts a relay delivering to sink
func NewRelay(sink common.Logger, opts ...RelayOption) *Relay {
	if sink == nil {
		sink = common.NoOpLogger()
	}
	r := &Relay{
		sink:    sink,
		clock:   shared.NewRealClock(),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cond = sync.NewCond(&r.mu)

	go r.run()
	return r
}

// Log enqueues a record. Never blocks on delivery; records logged after Close are dropped.
func (r *Relay) Log(level, message string, metadata map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.queue = append(r.queue, &Record{
		Level:    level,
		Message:  message,
		Metadata: metadata,
		Time:     r.clock.Now(),
	})
	r.cond.Signal()
}

// Pending returns the number of records not yet delivered
func (r *Relay) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Close enqueues the sentinel and waits until every earlier record has been
// delivered and the relay goroutine has exited. Safe to call more than once.
func (r *Relay) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		r.queue = append(r.queue, nil)
		r.cond.Signal()
	}
	r.mu.Unlock()

	<-r.done
}

func (r *Relay) run() {
	defer close(r.done)

	for {
		r.mu.Lock()
		for len(r.queue) == 0 {
			r.cond.Wait()
		}
		rec := r.queue[0]
		r.queue[0] = nil
		r.queue = r.queue[1:]
		r.mu.Unlock()

		if rec == nil {
			return
		}
		r.deliver(rec)
	}
}

func (r *Relay) deliver(rec *Record) {
	r.sink.Log(rec.Level, rec.Message, rec.Metadata)

	if r.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.repo.Log(ctx, r.sessionID, rec.Message, rec.Level, rec.Metadata); err != nil {
		r.sink.Log(common.LevelError, "failed to persist log entry", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
