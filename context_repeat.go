// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// repeatContext drives a Repeat-N invocation (§4.4.3): the descriptor's
// runtime input is the iteration limit N; body runs exactly N times, once
// per 0-based counter value 0..N-1, regardless of what any iteration
// returns. N == 0 never invokes body at all — it reports the
// empty-promoted zero value of body's declared result type directly
// (§9 resolved), or the empty envelope itself when body declares no
// result type.
type repeatContext struct {
	stack *Stack
	desc  *repeatDescriptor

	limit   uint64
	counter uint64
	last    Value

	onResult    ResultFunc
	onException ExceptionFunc
}

func (c *repeatContext) isContext() {}

// newRepeatContext parses the runtime input into the iteration limit N.
// Repeat's own declared InputType is intentionally nil (descriptor.go):
// asUint64 accepts several concrete Go integer types, a flexibility no
// single reflect.Type could express, so this parse is the one residual
// check construction time cannot perform on Repeat's own input — a
// mismatch here is the host misusing Run, not a composition bug, hence
// ContractBroken rather than TypeMismatch.
func newRepeatContext(s *Stack, d *repeatDescriptor, input Value, onResult ResultFunc, onException ExceptionFunc) Context {
	limit, ok := asUint64(input)
	if !ok {
		onException(&ContractBroken{Msg: "repeat input must be an unsigned integer, got " + typeName(input)})
		return nil
	}
	c := &repeatContext{stack: s, desc: d, limit: limit, onResult: onResult, onException: onException}
	s.Push(c)
	if limit == 0 {
		s.PopSelf(c)
		onResult(promote(Empty(nil), d.body.ResultType()))
		return c
	}
	c.desc.body.makeContext(s, c.counter, c.onIterationResult, c.onIterationException)
	return c
}

func (c *repeatContext) onIterationResult(v Value) {
	c.last = v
	c.counter++
	if c.counter >= c.limit {
		c.stack.PopSelf(c)
		c.onResult(promote(c.last, c.desc.body.ResultType()))
		return
	}
	c.desc.body.makeContext(c.stack, c.counter, c.onIterationResult, c.onIterationException)
}

func (c *repeatContext) onIterationException(err error) {
	c.stack.PopSelf(c)
	c.onException(err)
}

// asUint64 converts the common unsigned-integer Go types to uint64,
// matching whatever concrete type a host chose for its iteration counts.
func asUint64(v Value) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	}
	return 0, false
}
