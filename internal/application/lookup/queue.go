package lookup

import (
	"sync"

	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

// Queue is an unbounded FIFO of targets awaiting lookup.
// Push never blocks; TryPop never waits.
//
// Outstanding counts targets pushed but not yet marked Done, so callers can tell
// "queue empty" apart from "worker finished".
type Queue struct {
	mu          sync.Mutex
	items       []*system.Target
	outstanding int

	// idle is nil, or open while outstanding > 0 and closed once it reaches 0
	idle chan struct{}
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a target to the tail
func (q *Queue) Push(target *system.Target) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, target)
	if q.outstanding == 0 {
		q.idle = nil
	}
	q.outstanding++
}

// TryPop removes the head target, if any
func (q *Queue) TryPop() (*system.Target, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	head := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return head, true
}

// Done marks one popped target as fully processed
func (q *Queue) Done() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.outstanding == 0 {
		return
	}
	q.outstanding--
	if q.outstanding == 0 && q.idle != nil {
		close(q.idle)
	}
}

// Idle returns a channel that is closed once every pushed target has been marked Done.
// A Push after that needs a fresh call to Idle.
func (q *Queue) Idle() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.idle == nil {
		q.idle = make(chan struct{})
		if q.outstanding == 0 {
			close(q.idle)
		}
	}
	return q.idle
}

// Len returns the number of targets waiting to be popped
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Outstanding returns the number of targets pushed and not yet Done
func (q *Queue) Outstanding() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.outstanding
}
