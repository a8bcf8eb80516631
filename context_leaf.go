// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import "fmt"

// leafContext drives one Leaf invocation (§4.4.1): enqueue the user
// function onto its target run-queue, run it with panic recovery, and
// report exactly one of a result or a UserException (or RunnerGone, if
// the target queue has already been released).
type leafContext struct {
	stack *Stack
	desc  *leafDescriptor

	onResult    ResultFunc
	onException ExceptionFunc
}

func (c *leafContext) isContext() {}

// newLeafContext pushes a new leaf context and enqueues its execution.
func newLeafContext(s *Stack, d *leafDescriptor, input Value, onResult ResultFunc, onException ExceptionFunc) Context {
	c := &leafContext{stack: s, desc: d, onResult: onResult, onException: onException}
	s.Push(c)
	enqueueOrThrow(d.queue, c.reportException, func() { c.run(input) })
	return c
}

// run executes the user function with panic recovery, converting both a
// returned error and a recovered panic into a UserException before
// popping itself and reporting (§4.4.1: "a leaf either produces a result
// or throws, never both").
func (c *leafContext) run(input Value) {
	var (
		result Value
		err    error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = e
				} else {
					err = fmt.Errorf("task: leaf panicked: %v", r)
				}
			}
		}()
		result, err = c.desc.fn(input)
	}()

	if err != nil {
		c.reportException(&UserException{Err: err})
		return
	}
	if c.desc.resultTy == nil {
		result = Empty(nil)
	}
	c.reportResult(result)
}

func (c *leafContext) reportResult(v Value) {
	c.stack.PopSelf(c)
	c.onResult(v)
}

func (c *leafContext) reportException(err error) {
	c.stack.PopSelf(c)
	c.onException(err)
}
