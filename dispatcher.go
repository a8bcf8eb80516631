// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Dispatcher is the external collaborator a RunQueue submits batches to
// (§6). It is deliberately minimal: submit a batch runner for a named
// queue, and it will run on some worker at some later time. The run-queue
// never learns how — a Dispatcher may be backed by an OS thread pool, an
// I/O-completion-port loop, or (as here) a bounded goroutine pool.
type Dispatcher interface {
	// Submit requests that batchRunner run on a worker. queueID identifies
	// the calling run-queue purely for the dispatcher's own bookkeeping
	// (e.g. metrics); the dispatcher never interprets it otherwise.
	Submit(queueID uuid.UUID, batchRunner func())
}

// PoolDispatcher is the module's default Dispatcher: a goroutine-pool
// implementation bounded by a weighted semaphore rather than a fixed
// worker-per-goroutine pool, so Submit never blocks the caller (it always
// spawns immediately) while still capping how many batches run
// concurrently across every queue sharing this dispatcher.
type PoolDispatcher struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPoolDispatcher returns a Dispatcher that runs at most workers batches
// concurrently. workers <= 0 is treated as 1.
func NewPoolDispatcher(workers int) *PoolDispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &PoolDispatcher{sem: semaphore.NewWeighted(int64(workers))}
}

// Submit runs batchRunner on a new goroutine once a pool slot is free.
// Submit itself never blocks: the goroutine it spawns blocks on the
// semaphore, not the caller. Submitting after Close is a silent no-op —
// consistent with the run-queue's own "release tolerates trailing
// enqueues without crashing" posture (§4.2 failure semantics).
func (p *PoolDispatcher) Submit(queueID uuid.UUID, batchRunner func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)
		batchRunner()
	}()
}

// Close stops accepting new submissions and blocks until every batch
// already spawned has finished running.
func (p *PoolDispatcher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}
