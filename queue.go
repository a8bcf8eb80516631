// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"sync"

	"github.com/google/uuid"
)

// queueState is the run-queue's lifecycle state from §4.2's table.
type queueState int

const (
	stateActive queueState = iota
	statePaused
	stateReleasing
)

// workItem is one unit of queued work: a closure plus the payload and
// context it closes over, pooled to keep steady-state enqueue/drain
// allocation-free under sustained load.
type workItem struct {
	fn func()
}

var workItemPool = sync.Pool{New: func() any { return new(workItem) }}

// RunQueue is a serial, strictly-FIFO executor (§4.2): at most one batch
// of queued work runs at a time, items within a batch run in the order
// they were enqueued, and a queue that is Paused accepts enqueues but
// defers running them until resumed.
type RunQueue struct {
	id   uuid.UUID
	disp Dispatcher

	mu         sync.Mutex
	state      queueState
	items      []*workItem
	busy       bool
	released   bool
	batchLimit int
}

// defaultBatchLimit bounds how much queued work one dispatcher submission
// drains before yielding back to the dispatcher, so one saturated queue
// cannot starve others sharing the same Dispatcher (§4.2).
const defaultBatchLimit = 256

// NewRunQueue creates a queue in the Active state backed by disp.
func NewRunQueue(disp Dispatcher) *RunQueue {
	return &RunQueue{
		id:         uuid.New(),
		disp:       disp,
		state:      stateActive,
		batchLimit: defaultBatchLimit,
	}
}

// ID returns the queue's identity, used only for diagnostics and as the
// Dispatcher.Submit correlation token.
func (q *RunQueue) ID() uuid.UUID { return q.id }

// IsActive reports whether the queue currently accepts and runs work.
func (q *RunQueue) IsActive() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state == stateActive && !q.released
}

// Released reports whether Release has been called on this queue.
func (q *RunQueue) Released() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.released
}

// Enqueue appends fn to the queue's FIFO and arranges for it to run. It
// returns RunnerGone if the queue has already been released — the one
// failure mode §4.2 asks the caller (always a task context) to observe
// and translate into an exception report of its own.
func (q *RunQueue) Enqueue(fn func()) error {
	q.mu.Lock()
	if q.released {
		q.mu.Unlock()
		return &RunnerGone{QueueID: q.id}
	}
	item := workItemPool.Get().(*workItem)
	item.fn = fn
	q.items = append(q.items, item)
	q.scheduleLocked()
	q.mu.Unlock()
	return nil
}

// schedulable reports whether the queue's state currently permits a batch
// to run: Active always, Releasing until the FIFO drains dry (§4.2's
// state table, "Releasing / batch completes, FIFO non-empty → Releasing
// (schedule another batch)"). Paused never schedules on its own.
func (q *RunQueue) schedulable() bool {
	return q.state == stateActive || q.state == stateReleasing
}

// scheduleLocked submits a drain batch to the dispatcher if the queue's
// state permits it, has pending work, and no batch is already in flight.
// Must be called with q.mu held.
func (q *RunQueue) scheduleLocked() {
	if !q.schedulable() || q.busy || len(q.items) == 0 {
		return
	}
	q.busy = true
	q.disp.Submit(q.id, q.runBatch)
}

// runBatch drains up to batchLimit items from the front of the FIFO,
// running each to completion before starting the next (serial execution,
// §4.2), then reschedules itself if work remains or arrived meanwhile. A
// Releasing queue keeps draining exactly like an Active one — release
// only stops new enqueues, never previously queued work (§4.2,
// "release-drains": all items enqueued before release still execute).
func (q *RunQueue) runBatch() {
	q.mu.Lock()
	if !q.schedulable() || len(q.items) == 0 {
		q.busy = false
		q.mu.Unlock()
		return
	}
	n := len(q.items)
	if n > q.batchLimit {
		n = q.batchLimit
	}
	batch := q.items[:n]
	q.items = q.items[n:]
	q.mu.Unlock()

	for _, item := range batch {
		fn := item.fn
		item.fn = nil
		workItemPool.Put(item)
		fn()
	}

	q.mu.Lock()
	if q.schedulable() && len(q.items) > 0 {
		// busy stays true: the next batch is handed back to the dispatcher.
		q.disp.Submit(q.id, q.runBatch)
	} else {
		q.busy = false
	}
	q.mu.Unlock()
}

// Pause transitions the queue to Paused: enqueues still succeed but no
// batch runs until Resume is called.
func (q *RunQueue) Pause() {
	q.mu.Lock()
	if q.state == stateActive {
		q.state = statePaused
	}
	q.mu.Unlock()
}

// Resume transitions a Paused queue back to Active and schedules any
// pending work.
func (q *RunQueue) Resume() {
	q.mu.Lock()
	if q.state == statePaused {
		q.state = stateActive
		q.scheduleLocked()
	}
	q.mu.Unlock()
}

// Release transitions the queue to Releasing: it becomes unreachable to
// new enqueuers immediately (subsequent Enqueue calls observe
// RunnerGone), but any work items already in the FIFO — including those
// dequeued by a batch in flight right now — are allowed to drain to
// completion (§4.2: "any pending work items are allowed to drain to
// completion; the queue's storage is reclaimed when the final batch
// reports back"). Release does not block waiting for that drain; it only
// ensures one is scheduled if none is already running.
func (q *RunQueue) Release() {
	q.mu.Lock()
	q.released = true
	q.state = stateReleasing
	q.scheduleLocked()
	q.mu.Unlock()
}

// WeakQueue is a non-owning handle to a RunQueue (§4.2's "weak reference
// to the target run-queue"). It models the spec's explicit Release()
// lifecycle rather than garbage-collector liveness — Go's weak.Pointer[T]
// tracks whether the GC has reclaimed an object, which is the wrong
// question here: a released queue may still be reachable (e.g. a leaf
// still holds *RunQueue) yet must act gone. Upgrade consults the queue's
// own released flag instead.
type WeakQueue struct {
	q *RunQueue
}

// Weak returns a non-owning handle to q.
func (q *RunQueue) Weak() WeakQueue { return WeakQueue{q: q} }

// Upgrade returns the underlying queue and true if it has not been
// released, or (nil, false) once Release has been called.
func (w WeakQueue) Upgrade() (*RunQueue, bool) {
	if w.q == nil || w.q.Released() {
		return nil, false
	}
	return w.q, true
}
