// Package session holds the per-workflow state: the role-tagged transcript,
// the aggregated facts, the latest rendered report, and the queue of pending
// UI update fragments. A session is constructed, reset, and torn down by the
// orchestrator; step and completion callbacks mutate it on the task's behalf.
package session

import (
	"sync"

	"github.com/entrhq/scout/pkg/types"
)

// Queue is the FIFO of pending update fragments for one session. Callbacks
// running inside the background task push; the orchestrator's poll loop
// drains. Push never blocks and never fails; DrainAll never blocks.
type Queue struct {
	mu      sync.Mutex
	pending []types.Update
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a fragment to the queue. The fragment is handed off by value;
// the caller must not mutate it after pushing.
func (q *Queue) Push(u types.Update) {
	if len(u) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, u)
}

// DrainAll removes and returns everything currently queued, preserving push
// order. It returns nil when nothing is queued.
func (q *Queue) DrainAll() []types.Update {
	q.mu.Lock()
	defer q.mu.Unlock()

	drained := q.pending
	q.pending = nil
	return drained
}

// Len returns the number of queued fragments.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
