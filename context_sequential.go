// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// sequentialContext drives a Sequential invocation (§4.4.2): runs
// children in order, feeding each child's result as the next child's
// input, reporting the last child's result as its own. completed counts
// how many children have reported so far; the next child starts the
// instant the previous one reports, so completed == len(children) is the
// unambiguous "all children are done" check (resolving spec.md's
// next_index == num_children timing ambiguity: the counter only ever
// advances on a child's own report, never speculatively).
type sequentialContext struct {
	stack *Stack
	desc  *sequentialDescriptor

	completed int

	onResult    ResultFunc
	onException ExceptionFunc
}

func (c *sequentialContext) isContext() {}

func newSequentialContext(s *Stack, d *sequentialDescriptor, input Value, onResult ResultFunc, onException ExceptionFunc) Context {
	c := &sequentialContext{stack: s, desc: d, onResult: onResult, onException: onException}
	s.Push(c)
	c.runChild(input)
	return c
}

// runChild spawns the context for children[completed], fed with in.
func (c *sequentialContext) runChild(in Value) {
	child := c.desc.children[c.completed]
	child.makeContext(c.stack, in, c.onChildResult, c.onChildException)
}

func (c *sequentialContext) onChildResult(v Value) {
	c.completed++
	if c.completed == len(c.desc.children) {
		c.stack.PopSelf(c)
		c.onResult(v)
		return
	}
	c.runChild(v)
}

func (c *sequentialContext) onChildException(err error) {
	c.stack.PopSelf(c)
	c.onException(err)
}
