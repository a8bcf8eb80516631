// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"fmt"
	"reflect"
)

// Descriptor is the closed set of task-graph node variants (§3): Leaf,
// Sequential, Loop, Repeat, Intercept. A Descriptor is immutable once
// constructed and is reused across any number of invocations; all
// per-invocation mutable state lives in the Context it spawns via
// makeContext.
type Descriptor interface {
	// InputType is the type this descriptor expects its runtime input to
	// be, or nil if it is untyped (a Leaf built without a declared input
	// type, or a composite whose own input contract cannot be pinned to a
	// single reflect.Type). Construction-time checks (Sequence, Loop,
	// Repeat) compare this against a prior child's ResultType wherever
	// both sides declare one; nil on either side skips the check rather
	// than failing it.
	InputType() reflect.Type

	// ResultType is the type a successful evaluation of this descriptor
	// reports, or nil if it reports the empty envelope.
	ResultType() reflect.Type

	// TargetQueue is the descriptor's home run-queue: a leaf's own queue,
	// or a composite's first child's queue, used only as a scheduling
	// hint (§4.3) — never as a binding placement decision.
	TargetQueue() WeakQueue

	// SubtaskCount and Subtask expose a descriptor's children for
	// introspection (diagnostics, visualization); the evaluation engine
	// itself drives children through makeContext, not through these.
	SubtaskCount() int
	Subtask(i int) Descriptor

	// makeContext spawns a fresh, pushed-onto-stack Context that will
	// drive this descriptor to completion, invoking onResult or
	// onException exactly once when it does.
	makeContext(s *Stack, input Value, onResult ResultFunc, onException ExceptionFunc) Context
}

// LeafFunc is the user function a Leaf descriptor wraps. It returns
// either a result or an error (§3.1: "a leaf either produces a result or
// throws"); a panic escaping fn is also captured and reported as a
// UserException (§4.4.1), so ordinary Go panics and explicit error
// returns are both valid ways for a leaf to "throw".
type LeafFunc func(input Value) (Value, error)

// leafDescriptor is the Leaf variant: a single user function plus the
// run-queue it must execute on (§3.1).
type leafDescriptor struct {
	fn       LeafFunc
	queue    *RunQueue
	inputTy  reflect.Type // nil => untyped, no adjacency checking against it
	resultTy reflect.Type // nil => void result
}

// Leaf builds a descriptor that runs fn on queue. inputTy is the
// reflect.Type fn expects its input to be and resultTy is the type of
// fn's successful result; either may be nil to opt that side out of
// construction-time checking (resultTy nil also means fn's result is
// void, reported as the Empty envelope on success).
func Leaf(queue *RunQueue, inputTy, resultTy reflect.Type, fn LeafFunc) Descriptor {
	return &leafDescriptor{fn: fn, queue: queue, inputTy: inputTy, resultTy: resultTy}
}

func (d *leafDescriptor) InputType() reflect.Type { return d.inputTy }
func (d *leafDescriptor) ResultType() reflect.Type { return d.resultTy }
func (d *leafDescriptor) TargetQueue() WeakQueue { return d.queue.Weak() }
func (d *leafDescriptor) SubtaskCount() int { return 0 }
func (d *leafDescriptor) Subtask(i int) Descriptor {
	panic("task: leaf descriptor has no subtasks")
}

func (d *leafDescriptor) makeContext(s *Stack, input Value, onResult ResultFunc, onException ExceptionFunc) Context {
	return newLeafContext(s, d, input, onResult, onException)
}

// sequentialDescriptor is the Sequential variant: an ordered, non-empty
// chain of children, each child's declared input type required to match
// its predecessor's declared result type (§3.2, §4.3).
type sequentialDescriptor struct {
	children []Descriptor
}

// Sequence builds a Sequential descriptor running children in order,
// each one's result feeding the next one's input, reporting the last
// child's result as its own. It panics with *EmptySequence if children
// is empty, and with *TypeMismatch if two adjacent children both declare
// a type on their shared hand-off and those types disagree — both are
// construction-time errors (§4.3), never runtime ones. A child that
// leaves either side of the hand-off undeclared (nil) is trusted rather
// than rejected, since LeafFunc's signature erases its input to Value and
// not every Leaf bothers to declare one.
func Sequence(children ...Descriptor) Descriptor {
	if len(children) == 0 {
		panic(&EmptySequence{})
	}
	for i := 1; i < len(children); i++ {
		prev, cur := children[i-1].ResultType(), children[i].InputType()
		if prev != nil && cur != nil && prev != cur {
			panic(&TypeMismatch{Msg: fmt.Sprintf(
				"sequence child %d declares result %s but child %d declares input %s", i-1, prev, i, cur)})
		}
	}
	return &sequentialDescriptor{children: children}
}

func (d *sequentialDescriptor) InputType() reflect.Type { return d.children[0].InputType() }
func (d *sequentialDescriptor) ResultType() reflect.Type {
	return d.children[len(d.children)-1].ResultType()
}
func (d *sequentialDescriptor) TargetQueue() WeakQueue   { return d.children[0].TargetQueue() }
func (d *sequentialDescriptor) SubtaskCount() int        { return len(d.children) }
func (d *sequentialDescriptor) Subtask(i int) Descriptor { return d.children[i] }

func (d *sequentialDescriptor) makeContext(s *Stack, input Value, onResult ResultFunc, onException ExceptionFunc) Context {
	return newSequentialContext(s, d, input, onResult, onException)
}

// loopDescriptor is the Loop variant: a predicate re-evaluated before
// each iteration of body, looping while it reports true (§3.3).
type loopDescriptor struct {
	predicate Descriptor // state -> bool, input is loop state
	body      Descriptor // state -> state
}

// Loop builds a Loop descriptor: predicate is evaluated against the
// current state before every iteration; while it reports true, body runs
// and its result becomes the next state. Loop reports the state at the
// point predicate reports false. Three construction-time checks enforce
// §4.3's typing rules: predicate must declare a bool result; if body is
// given, predicate and body must agree on the declared state type
// flowing between them; and body's own declared result must match its
// own declared input, since each iteration feeds a body's result back in
// as the next iteration's input. Any side left undeclared (nil) is
// trusted rather than rejected. body may be nil — a body-less loop
// re-evaluates predicate against the unchanged input forever unless
// predicate itself depends on state the loop never advances (§9:
// documented as user responsibility, not guarded here).
func Loop(predicate, body Descriptor) Descriptor {
	if rt := predicate.ResultType(); rt == nil || rt.Kind() != reflect.Bool {
		panic(&TypeMismatch{Msg: "loop predicate must declare a bool result"})
	}
	if body != nil {
		if pi, bi := predicate.InputType(), body.InputType(); pi != nil && bi != nil && pi != bi {
			panic(&TypeMismatch{Msg: fmt.Sprintf(
				"loop predicate declares input %s but body declares input %s", pi, bi)})
		}
		if bi, br := body.InputType(), body.ResultType(); bi != nil && br != nil && bi != br {
			panic(&TypeMismatch{Msg: fmt.Sprintf(
				"loop body declares result %s but must accept it back as input %s", br, bi)})
		}
	}
	return &loopDescriptor{predicate: predicate, body: body}
}

func (d *loopDescriptor) InputType() reflect.Type { return d.predicate.InputType() }
func (d *loopDescriptor) ResultType() reflect.Type {
	if d.body == nil {
		// A body-less loop reports its own (unchanged) input; fall back to
		// the predicate's declared input type, since that is the state type
		// the loop threads through unmodified.
		return d.predicate.InputType()
	}
	return d.body.ResultType()
}
func (d *loopDescriptor) TargetQueue() WeakQueue { return d.predicate.TargetQueue() }
func (d *loopDescriptor) SubtaskCount() int {
	if d.body == nil {
		return 1
	}
	return 2
}
func (d *loopDescriptor) Subtask(i int) Descriptor {
	if i == 0 {
		return d.predicate
	}
	return d.body
}

func (d *loopDescriptor) makeContext(s *Stack, input Value, onResult ResultFunc, onException ExceptionFunc) Context {
	return newLoopContext(s, d, input, onResult, onException)
}

// repeatDescriptor is the Repeat-N variant: body runs exactly N times in
// sequence, where N is supplied as this descriptor's runtime input — not
// baked in at construction time — and body receives the 0-based
// iteration index as its input on each call (§3.4, §4.3).
type repeatDescriptor struct {
	body Descriptor
}

// Repeat builds a Repeat-N descriptor. At invocation time its input is
// the iteration count N (an unsigned integer); body runs exactly N times,
// once per 0-based index 0..N-1, delivered to body as a uint64. It panics
// with *TypeMismatch at construction time if body declares an input type
// other than uint64 (§4.3's "input type equal to the unsigned-integer
// iteration type"); a body that leaves its input type undeclared (nil) is
// trusted rather than rejected. When N == 0, Repeat reports the
// empty-promoted zero value of body's declared result type without ever
// invoking body (§4.4.3, §9 resolved).
func Repeat(body Descriptor) Descriptor {
	if it := body.InputType(); it != nil && it != reflect.TypeOf(uint64(0)) {
		panic(&TypeMismatch{Msg: fmt.Sprintf("repeat body must declare a uint64 input, got %s", it)})
	}
	return &repeatDescriptor{body: body}
}

// InputType is deliberately nil: Repeat's own runtime input (the limit N)
// is parsed by asUint64 from any of several concrete Go integer types
// (context_repeat.go), a polymorphism no single reflect.Type can express.
// A host supplying the wrong kind of value here is only caught when the
// repeat actually runs (reported as *ContractBroken, not *TypeMismatch).
func (d *repeatDescriptor) InputType() reflect.Type  { return nil }
func (d *repeatDescriptor) ResultType() reflect.Type { return d.body.ResultType() }
func (d *repeatDescriptor) TargetQueue() WeakQueue   { return d.body.TargetQueue() }
func (d *repeatDescriptor) SubtaskCount() int        { return 1 }
func (d *repeatDescriptor) Subtask(i int) Descriptor { return d.body }

func (d *repeatDescriptor) makeContext(s *Stack, input Value, onResult ResultFunc, onException ExceptionFunc) Context {
	return newRepeatContext(s, d, input, onResult, onException)
}

// Catcher pairs a declared exception-match type with a handler
// descriptor. A nil Type is the universal catcher (§4.4.4). Order
// matters: catchers are tried in slice order, first match wins.
type Catcher struct {
	Type    reflect.Type
	Handler Descriptor
}

// interceptDescriptor is the Intercept variant: runs body; if body
// throws, the first catcher whose Type matches the exception (via
// Matcher) runs instead, receiving the exception as its input (§3.5).
type interceptDescriptor struct {
	body     Descriptor
	catchers []Catcher
	matcher  ExceptionMatcher
}

// Intercept builds an Intercept descriptor. matcher selects how a
// catcher's declared Type is tested against a thrown exception;
// DefaultExceptionMatcher is used when matcher is nil. Catchers receive
// the exception itself as their input, a dynamically-typed hand-off by
// nature (it depends on which catcher matched), so it is not subject to
// the same construction-time input-type checking as Sequence/Loop/Repeat.
// A catcher's declared result type is checked: it panics with
// *TypeMismatch if a catcher and body both declare a result type and the
// two differ.
func Intercept(body Descriptor, matcher ExceptionMatcher, catchers ...Catcher) Descriptor {
	if matcher == nil {
		matcher = DefaultExceptionMatcher
	}
	want := body.ResultType()
	for i, c := range catchers {
		if got := c.Handler.ResultType(); want != nil && got != nil && got != want {
			panic(&TypeMismatch{Msg: fmt.Sprintf(
				"intercept catcher %d declares result %s but body declares result %s", i, got, want)})
		}
	}
	return &interceptDescriptor{body: body, catchers: catchers, matcher: matcher}
}

func (d *interceptDescriptor) InputType() reflect.Type  { return d.body.InputType() }
func (d *interceptDescriptor) ResultType() reflect.Type { return d.body.ResultType() }
func (d *interceptDescriptor) TargetQueue() WeakQueue   { return d.body.TargetQueue() }
func (d *interceptDescriptor) SubtaskCount() int        { return 1 + len(d.catchers) }
func (d *interceptDescriptor) Subtask(i int) Descriptor {
	if i == 0 {
		return d.body
	}
	return d.catchers[i-1].Handler
}

func (d *interceptDescriptor) makeContext(s *Stack, input Value, onResult ResultFunc, onException ExceptionFunc) Context {
	return newInterceptContext(s, d, input, onResult, onException)
}
