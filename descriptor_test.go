// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireTypeMismatch(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		_, ok := r.(*TypeMismatch)
		require.True(t, ok, "expected *TypeMismatch, got %T (%v)", r, r)
	}()
	fn()
}

func TestSequenceAdjacentTypeMismatchPanics(t *testing.T) {
	disp := NewPoolDispatcher(1)
	defer disp.Close()
	q := NewRunQueue(disp)

	intToInt := Leaf(q, reflect.TypeOf(int(0)), reflect.TypeOf(int(0)), func(in Value) (Value, error) {
		return in.(int), nil
	})
	stringToString := Leaf(q, reflect.TypeOf(""), reflect.TypeOf(""), func(in Value) (Value, error) {
		return in.(string), nil
	})

	requireTypeMismatch(t, func() {
		Sequence(intToInt, stringToString)
	})
}

func TestSequenceUndeclaredSideIsTrusted(t *testing.T) {
	disp := NewPoolDispatcher(1)
	defer disp.Close()
	q := NewRunQueue(disp)

	// Neither leaf declares a type on the shared hand-off, so Sequence must
	// not panic even though nothing proves the types actually agree.
	untypedResult := Leaf(q, reflect.TypeOf(int(0)), nil, func(in Value) (Value, error) {
		return "surprise", nil
	})
	untypedInput := Leaf(q, nil, reflect.TypeOf(""), func(in Value) (Value, error) {
		return in.(string), nil
	})

	require.NotPanics(t, func() {
		Sequence(untypedResult, untypedInput)
	})
}

func TestRepeatBodyWrongInputTypePanics(t *testing.T) {
	disp := NewPoolDispatcher(1)
	defer disp.Close()
	q := NewRunQueue(disp)

	body := Leaf(q, reflect.TypeOf(int(0)), reflect.TypeOf(int(0)), func(in Value) (Value, error) {
		return in.(int), nil
	})

	requireTypeMismatch(t, func() {
		Repeat(body)
	})
}

func TestRepeatBodyUint64InputIsAccepted(t *testing.T) {
	disp := NewPoolDispatcher(1)
	defer disp.Close()
	q := NewRunQueue(disp)

	body := Leaf(q, reflect.TypeOf(uint64(0)), reflect.TypeOf(int(0)), func(in Value) (Value, error) {
		return int(in.(uint64)), nil
	})

	require.NotPanics(t, func() {
		Repeat(body)
	})
}

func TestLoopPredicateNonBoolResultPanics(t *testing.T) {
	disp := NewPoolDispatcher(1)
	defer disp.Close()
	q := NewRunQueue(disp)

	predicate := Leaf(q, reflect.TypeOf(int(0)), reflect.TypeOf(int(0)), func(in Value) (Value, error) {
		return in, nil
	})
	body := Leaf(q, reflect.TypeOf(int(0)), reflect.TypeOf(int(0)), func(in Value) (Value, error) {
		return in, nil
	})

	requireTypeMismatch(t, func() {
		Loop(predicate, body)
	})
}

func TestLoopPredicateBodyStateMismatchPanics(t *testing.T) {
	disp := NewPoolDispatcher(1)
	defer disp.Close()
	q := NewRunQueue(disp)

	predicate := Leaf(q, reflect.TypeOf(int(0)), reflect.TypeOf(bool(false)), func(in Value) (Value, error) {
		return in.(int) < 4, nil
	})
	body := Leaf(q, reflect.TypeOf(""), reflect.TypeOf(""), func(in Value) (Value, error) {
		return in.(string), nil
	})

	requireTypeMismatch(t, func() {
		Loop(predicate, body)
	})
}

func TestLoopBodySelfInconsistentResultPanics(t *testing.T) {
	disp := NewPoolDispatcher(1)
	defer disp.Close()
	q := NewRunQueue(disp)

	predicate := Leaf(q, reflect.TypeOf(int(0)), reflect.TypeOf(bool(false)), func(in Value) (Value, error) {
		return in.(int) < 4, nil
	})
	// body declares int in, string out: its own result could never feed
	// back in as its own next input.
	body := Leaf(q, reflect.TypeOf(int(0)), reflect.TypeOf(""), func(in Value) (Value, error) {
		return "x", nil
	})

	requireTypeMismatch(t, func() {
		Loop(predicate, body)
	})
}
