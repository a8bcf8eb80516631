// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"reflect"
	"testing"
)

// BenchmarkLeafScheduling measures one round trip through the
// enqueue/run/report path for a single leaf invocation (SPEC_FULL.md §8's
// allocation-sensitive leaf-scheduling path).
func BenchmarkLeafScheduling(b *testing.B) {
	disp := NewPoolDispatcher(4)
	defer disp.Close()
	q := NewRunQueue(disp)

	leaf := Leaf(q, reflect.TypeOf(int(0)), reflect.TypeOf(int(0)), func(in Value) (Value, error) {
		return in.(int) + 1, nil
	})

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Run(leaf, i, nil).Wait(); err != nil {
			b.Fatalf("leaf run errored: %v", err)
		}
	}
}

// BenchmarkSequentialHandoff measures a 3-child Sequence's per-invocation
// cost, exercising the result-to-input hand-off between adjacent children
// (SPEC_FULL.md §8's allocation-sensitive sequential hand-off path).
func BenchmarkSequentialHandoff(b *testing.B) {
	disp := NewPoolDispatcher(4)
	defer disp.Close()
	q := NewRunQueue(disp)

	d := Sequence(
		intLeaf(q, func(i int) int { return i + 1 }),
		intLeaf(q, func(i int) int { return i * 2 }),
		intLeaf(q, func(i int) int { return i - 3 }),
	)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Run(d, i, nil).Wait(); err != nil {
			b.Fatalf("sequential run errored: %v", err)
		}
	}
}
