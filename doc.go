// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package task implements an asynchronous task-composition core: a
// closed set of task descriptors (Leaf, Sequential, Loop, Repeat-N,
// Intercept) evaluated by an explicit continuation stack running atop
// one or more serial run-queues.
//
// A Descriptor is an immutable, reusable description of a computation
// graph. Running one (Run) spawns a fresh Stack of Contexts that drive
// the graph to completion entirely through result/exception callbacks —
// the engine never recurses on the host call stack to thread a
// composite's children together, so host stack depth stays bounded
// regardless of how many steps a composition takes at evaluation time;
// only the graph's own nesting depth (chosen at construction time, not
// at run time) consumes it.
//
// Each Leaf names the RunQueue its user function executes on; composite
// descriptors carry no queue of their own; work crosses queues only at a
// Leaf boundary. A RunQueue is a strictly serial FIFO fed by a Dispatcher,
// the engine's sole abstraction over how work actually gets a goroutine —
// PoolDispatcher is the bundled default, bounding concurrency with a
// weighted semaphore.
//
// Results and inputs move through the engine as an opaque Value. Declared
// types are examined at descriptor-construction time, via reflect, where
// Sequential/Loop/Repeat/Intercept validate that their children's declared
// types actually compose; at run time only a loop's bool predicate result
// and Repeat's iteration count are type-checked. A leaf with a void result
// reports the Empty envelope; composites that must hand a differently
// typed caller a concrete value promote it to that type's zero value.
//
// Exceptions are plain Go errors. UserException wraps whatever a leaf's
// function returned or panicked; Intercept's catchers select a handler by
// declared type using an ExceptionMatcher — DefaultExceptionMatcher
// implements "exact type or base class" using reflect.Type and the
// standard errors.Unwrap chain.
package task
