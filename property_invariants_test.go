// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestDeepSequentialChainBoundedStack covers §8.2 (context conservation:
// the continuation stack is empty once the root reports) and §8.5
// (bounded host stack: a pipeline of N sequential leaves completes with
// host stack depth O(1) in N, tested at N >= 1e5). It drives the
// descriptor directly against its own Stack rather than through Run, so
// the test can inspect Depth() after completion.
func TestDeepSequentialChainBoundedStack(t *testing.T) {
	disp := NewPoolDispatcher(4)
	defer disp.Close()
	q := NewRunQueue(disp)

	const n = 150000
	children := make([]Descriptor, n)
	for i := range children {
		children[i] = Leaf(q, reflect.TypeOf(int(0)), reflect.TypeOf(int(0)), func(in Value) (Value, error) {
			return in.(int) + 1, nil
		})
	}
	d := Sequence(children...)

	stack := NewStack()
	result := make(chan Value, 1)
	failure := make(chan error, 1)
	d.makeContext(stack, 0, func(v Value) { result <- v }, func(err error) { failure <- err })

	select {
	case v := <-result:
		require.Equal(t, n, v)
	case err := <-failure:
		t.Fatalf("chain of %d leaves errored: %v", n, err)
	case <-time.After(30 * time.Second):
		t.Fatalf("chain of %d leaves did not complete in time", n)
	}
	require.Equal(t, 0, stack.Depth(),
		"continuation stack must be empty after root completion (§8.2 context conservation)")
}

// TestSerialPerQueueExclusion covers §8.4: no two work items enqueued on
// the same queue ever execute concurrently, observed via a shared
// in/out counter whose high-water mark must never exceed 1.
func TestSerialPerQueueExclusion(t *testing.T) {
	disp := NewPoolDispatcher(8)
	defer disp.Close()
	q := NewRunQueue(disp)

	var current, peak int64
	const n = 5000
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, q.Enqueue(func() {
			c := atomic.AddInt64(&current, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if c <= p || atomic.CompareAndSwapInt64(&peak, p, c) {
					break
				}
			}
			atomic.AddInt64(&current, -1)
			wg.Done()
		}))
	}
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt64(&peak),
		"max concurrent executions of one queue must never exceed 1 (§8.4 serial per queue)")
}
