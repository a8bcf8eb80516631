// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Error taxonomy. Every kind below is interceptable except TypeMismatch
// and EmptySequence: both are raised only while a descriptor tree is
// being built (Sequence, Loop, Repeat, ...), before Run ever starts an
// invocation, so neither can surface from a running composition.
// ContractBroken is the runtime counterpart — raised once a composition is
// already running and some value fails to match a type its producer had
// declared.

// UserException wraps an error returned (or a value panicked) by a leaf's
// user function. It is the only exception kind a host-written catcher is
// expected to declare its match type against, since RunnerGone,
// TypeMismatch, EmptySequence, and CatcherThrew are engine-raised.
type UserException struct {
	Err error
}

func (e *UserException) Error() string { return "task: user function failed: " + e.Err.Error() }
func (e *UserException) Unwrap() error { return e.Err }

// TypeMismatch is raised at descriptor-construction time when a composite
// descriptor detects that its children's declared types do not compose.
// It is a static, fatal error: the descriptor tree in question never
// becomes a Descriptor a caller can Run.
type TypeMismatch struct {
	Msg string
}

func (e *TypeMismatch) Error() string { return "task: type mismatch: " + e.Msg }

// ContractBroken is raised at invocation time in exactly two places: a
// loop predicate that reports something other than a bool, despite its
// declared bool result, and a Repeat whose runtime input is not an
// accepted iteration count (see asUint64). Construction-time TypeMismatch
// checks catch graph-shape mistakes before a run starts; leaf results in
// general are not checked against their declared ResultType at run time.
type ContractBroken struct {
	Msg string
}

func (e *ContractBroken) Error() string { return "task: contract broken: " + e.Msg }

// RunnerGone is raised when a leaf tries to enqueue onto a run-queue that
// has already been released. Interceptable like UserException.
type RunnerGone struct {
	QueueID uuid.UUID
}

func (e *RunnerGone) Error() string {
	return fmt.Sprintf("task: run-queue %s is gone", e.QueueID)
}

// EmptySequence is raised at descriptor-construction time when Sequence
// is called with zero children.
type EmptySequence struct{}

func (e *EmptySequence) Error() string { return "task: sequence requires at least one child" }

// CatcherThrew wraps an error a catcher itself raised while handling an
// exception. It propagates past the intercept to its parent; it is never
// itself interceptable by the same intercept's other catchers (§4.4.4:
// "a catcher that itself throws bypasses remaining catchers").
type CatcherThrew struct {
	Err error
}

func (e *CatcherThrew) Error() string { return "task: catcher raised: " + e.Err.Error() }
func (e *CatcherThrew) Unwrap() error { return e.Err }

// ExceptionMatcher is the host-language exception-matching hook from §6:
// given the exception flowing through a context chain and a catcher's
// declared match type, it reports whether that catcher should handle it.
// The engine calls only this hook; it never introspects exception
// internals beyond what reflect.Type comparison and the standard Unwrap
// chain already provide.
type ExceptionMatcher func(err error, declared reflect.Type) bool

// typeName describes v's concrete type for ContractBroken messages,
// without panicking on a nil Value.
func typeName(v Value) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

// DefaultExceptionMatcher implements "exact type or base class" using Go's
// nearest equivalents: a declared interface type matches any error whose
// concrete type (at any point in the Unwrap chain) implements it; a
// declared concrete type matches only that exact type, again searched
// through the Unwrap chain so a wrapped exception is still caught by the
// type it wraps. A nil declared type is the universal catcher and matches
// anything.
func DefaultExceptionMatcher(err error, declared reflect.Type) bool {
	if declared == nil {
		return true
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		t := reflect.TypeOf(e)
		if t == nil {
			continue
		}
		if declared.Kind() == reflect.Interface {
			if t.Implements(declared) {
				return true
			}
			continue
		}
		if t == declared {
			return true
		}
	}
	return false
}
