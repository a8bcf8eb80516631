// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// interceptContext drives an Intercept invocation (§4.4.5 under its
// original numbering): runs body; if body throws, the first catcher
// whose declared Type matches (via desc.matcher) runs in body's place,
// receiving the exception as its input. If no catcher matches, the
// original exception propagates unchanged. A catcher that itself throws
// propagates as CatcherThrew and is never retried against the remaining
// catchers (§4.4.4 prose).
type interceptContext struct {
	stack *Stack
	desc  *interceptDescriptor

	onResult    ResultFunc
	onException ExceptionFunc
}

func (c *interceptContext) isContext() {}

func newInterceptContext(s *Stack, d *interceptDescriptor, input Value, onResult ResultFunc, onException ExceptionFunc) Context {
	c := &interceptContext{stack: s, desc: d, onResult: onResult, onException: onException}
	s.Push(c)
	d.body.makeContext(s, input, c.onBodyResult, c.onBodyException)
	return c
}

func (c *interceptContext) onBodyResult(v Value) {
	c.stack.PopSelf(c)
	c.onResult(v)
}

func (c *interceptContext) onBodyException(err error) {
	for _, catcher := range c.desc.catchers {
		if !c.desc.matcher(err, catcher.Type) {
			continue
		}
		catcher.Handler.makeContext(c.stack, err, c.onCatcherResult, c.onCatcherException)
		return
	}
	c.stack.PopSelf(c)
	c.onException(err)
}

func (c *interceptContext) onCatcherResult(v Value) {
	c.stack.PopSelf(c)
	c.onResult(v)
}

func (c *interceptContext) onCatcherException(err error) {
	c.stack.PopSelf(c)
	c.onException(&CatcherThrew{Err: err})
}
