// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"reflect"
	"testing"
)

func TestPromoteEmptyToZeroValue(t *testing.T) {
	got := promote(Empty(nil), reflect.TypeOf(int(0)))
	if got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestPromoteEmptyWithNilWantPassesThrough(t *testing.T) {
	e := Empty(reflect.TypeOf(""))
	got := promote(e, nil)
	if !isEmpty(got) {
		t.Fatalf("expected empty envelope to pass through unchanged when want is nil")
	}
}

func TestPromoteNonEmptyPassesThrough(t *testing.T) {
	got := promote(42, reflect.TypeOf(int(0)))
	if got != 42 {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestStackPushPopOrder(t *testing.T) {
	s := NewStack()
	if !s.Empty() {
		t.Fatalf("new stack must be empty")
	}

	a := &leafContext{}
	b := &leafContext{}
	s.Push(a)
	s.Push(b)

	if s.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", s.Depth())
	}
	if s.Top() != Context(b) {
		t.Fatalf("top must be the most recently pushed context")
	}

	s.PopSelf(b)
	if s.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", s.Depth())
	}

	s.PopSelf(a)
	if !s.Empty() {
		t.Fatalf("stack must be empty after popping every frame")
	}
}

func TestStackPopSelfPanicsWhenNotTop(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when a non-top context tries to pop itself")
		}
	}()
	s := NewStack()
	a := &leafContext{}
	b := &leafContext{}
	s.Push(a)
	s.Push(b)
	s.PopSelf(a)
}
