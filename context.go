// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// ResultFunc is the continuation a context invokes exactly once, with
// its final value, when it completes successfully (§4.1's
// "result-report callback").
type ResultFunc func(Value)

// ExceptionFunc is the continuation a context invokes exactly once, with
// the exception that escaped it, when it completes by throwing (§4.1's
// "exception-report callback"). A context reports to exactly one of
// ResultFunc or ExceptionFunc, never both, never neither.
type ExceptionFunc func(error)

// enqueueOrThrow submits fn onto q, translating a released queue into an
// immediate exception report rather than a panic — the one place every
// context touches a run-queue it does not own outright (§4.2).
func enqueueOrThrow(q *RunQueue, onException ExceptionFunc, fn func()) {
	if err := q.Enqueue(fn); err != nil {
		onException(err)
	}
}
