// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// loopContext drives a Loop invocation (§4.4.3 under its original
// numbering, "while predicate(state) then state = body(state)"):
// predicate is re-evaluated against the current state before every
// iteration; the loop reports the state at the point predicate first
// reports false. A body that never changes predicate's outcome spins
// forever — this is user responsibility, not an engine guard (§9).
type loopContext struct {
	stack *Stack
	desc  *loopDescriptor

	state Value

	onResult    ResultFunc
	onException ExceptionFunc
}

func (c *loopContext) isContext() {}

func newLoopContext(s *Stack, d *loopDescriptor, input Value, onResult ResultFunc, onException ExceptionFunc) Context {
	c := &loopContext{stack: s, desc: d, state: input, onResult: onResult, onException: onException}
	s.Push(c)
	c.runPredicate()
	return c
}

func (c *loopContext) runPredicate() {
	c.desc.predicate.makeContext(c.stack, c.state, c.onPredicateResult, c.onChildException)
}

func (c *loopContext) onPredicateResult(v Value) {
	cont, ok := v.(bool)
	if !ok {
		c.stack.PopSelf(c)
		c.onException(&ContractBroken{Msg: "loop predicate declared a bool result but reported " + typeName(v)})
		return
	}
	if !cont {
		c.stack.PopSelf(c)
		c.onResult(c.state)
		return
	}
	if c.desc.body == nil {
		c.runPredicate()
		return
	}
	c.desc.body.makeContext(c.stack, c.state, c.onBodyResult, c.onChildException)
}

func (c *loopContext) onBodyResult(v Value) {
	c.state = v
	c.runPredicate()
}

func (c *loopContext) onChildException(err error) {
	c.stack.PopSelf(c)
	c.onException(err)
}
