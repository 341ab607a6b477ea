// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	. "cogentcore.org/datamodel/tree"
	"cogentcore.org/datamodel/tree/testdata"
)

func TestQueueOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := range 10 {
		q.Post(func() { got = append(got, i) })
	}
	assert.Equal(t, 10, q.Len())
	assert.Equal(t, 10, q.Flush())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Flush())
}

func TestQueuePostFromTask(t *testing.T) {
	q := NewQueue()
	var got []string
	q.Post(func() {
		got = append(got, "a")
		q.Post(func() { got = append(got, "c") })
	})
	q.Post(func() { got = append(got, "b") })
	assert.Equal(t, 3, q.Flush())
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestQueueConcurrentPost(t *testing.T) {
	q := NewQueue()
	var ran atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				q.Post(func() { ran.Add(1) })
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, q.Len())
	assert.Equal(t, 800, q.Flush())
	assert.Equal(t, int64(800), ran.Load())
}

func TestBroadcastDeferred(t *testing.T) {
	q := NewQueue()
	root := testdata.NewRoot()
	leaf := root.FindPath("mid.leaf")

	var got []*Node
	root.Bind("Ping", func(ev *Event) { got = append(got, ev.Target) })
	leaf.BroadcastDeferred(&Event{Type: "Ping", Bubbles: true}, q)
	assert.Empty(t, got)
	q.Flush()
	assert.Equal(t, []*Node{leaf}, got)

	// the node is destroyed before the task runs
	got = nil
	other := testdata.Root.New()
	other.Bind("Ping", func(ev *Event) { got = append(got, ev.Target) })
	other.BroadcastDeferred(&Event{Type: "Ping"}, q)
	other.Destroy()
	assert.Equal(t, 1, q.Flush())
	assert.Empty(t, got)
}
