// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"github.com/google/uuid"
)

// outcome is the root invocation's "exactly one of {result, exception}"
// observation (§4.5), the task-domain instance of kont's Either[E, A].
type outcome struct {
	value Value
	err   error
}

// Future is the handle a root invocation returns immediately (§4.5: Run
// never blocks the caller). Exactly one of Wait's return values is
// non-zero once the composition completes.
type Future struct {
	runID uuid.UUID
	ch    chan outcome
	done  chan struct{}
	out   outcome
}

// RunID identifies this invocation, independent of any run-queue's own
// identity.
func (f *Future) RunID() uuid.UUID { return f.runID }

// Wait blocks until the composition reported, then returns its result or
// its exception — never both, never neither.
func (f *Future) Wait() (Value, error) {
	<-f.done
	return f.out.value, f.out.err
}

// Done returns a channel closed once the composition has reported,
// letting a caller select on completion without blocking outright.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Observer is an optional hook a host may attach to a Run invocation to
// observe its outcome without calling Wait — e.g. to log it. The engine
// itself never constructs one and never logs (§5); Observer exists purely
// for host callers (the demonstration CLI passes nil and prints results
// itself).
type Observer interface {
	OnResult(runID uuid.UUID, v Value)
	OnException(runID uuid.UUID, err error)
}

// Run starts a fresh invocation of d against input on a new continuation
// stack and returns immediately with a Future (§4.5). obs may be nil.
func Run(d Descriptor, input Value, obs Observer) *Future {
	f := &Future{
		runID: uuid.New(),
		ch:    make(chan outcome, 1),
		done:  make(chan struct{}),
	}

	go func() {
		o := <-f.ch
		f.out = o
		close(f.done)
		if obs != nil {
			if o.err != nil {
				obs.OnException(f.runID, o.err)
			} else {
				obs.OnResult(f.runID, o.value)
			}
		}
	}()

	stack := NewStack()
	d.makeContext(stack, input,
		func(v Value) { f.ch <- outcome{value: v} },
		func(err error) { f.ch <- outcome{err: err} },
	)

	return f
}
