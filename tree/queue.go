// Copyright 2018 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"sync"
	"sync/atomic"
)

// Dispatcher runs posted tasks on another execution context,
// such as the goroutine that owns a tree.
type Dispatcher interface {
	Post(task func())
}

// BroadcastDeferred posts the broadcast of the event onto the given
// dispatcher instead of running it inline. The event is kept until the
// task runs. If the node has been destroyed by then, nothing happens.
func (n *Node) BroadcastDeferred(ev *Event, d Dispatcher) {
	d.Post(func() {
		if n.IsDestroyed() {
			return
		}
		n.Broadcast(ev)
	})
}

// Queue is a lock-free FIFO [Dispatcher]. Any goroutine can post tasks,
// and the goroutine that owns the tree runs them with [Queue.Flush].
// It is based on https://github.com/fyne-io/fyne/blob/master/internal/async/queue_canvasobject.go
type Queue struct {
	head atomic.Pointer[queueTask]
	tail atomic.Pointer[queueTask]
	len  atomic.Uint64
}

type queueTask struct {
	next atomic.Pointer[queueTask]
	fun  func()
}

var queueTaskPool = sync.Pool{
	New: func() any { return &queueTask{} },
}

// NewQueue returns a new empty queue.
func NewQueue() *Queue {
	q := &Queue{}
	head := &queueTask{}
	q.head.Store(head)
	q.tail.Store(head)
	return q
}

// Post adds a task to the end of the queue.
func (q *Queue) Post(task func()) {
	i := queueTaskPool.Get().(*queueTask)
	i.next.Store(nil)
	i.fun = task

	var last, lastnext *queueTask
	for {
		last = q.tail.Load()
		lastnext = last.next.Load()
		if q.tail.Load() == last {
			if lastnext == nil {
				if last.next.CompareAndSwap(lastnext, i) {
					q.tail.CompareAndSwap(last, i)
					q.len.Add(1)
					return
				}
			} else {
				q.tail.CompareAndSwap(last, lastnext)
			}
		}
	}
}

// next removes and returns the next task in the queue.
// It returns nil if the queue is empty.
func (q *Queue) next() func() {
	var first, last, firstnext *queueTask
	for {
		first = q.head.Load()
		last = q.tail.Load()
		firstnext = first.next.Load()
		if first == q.head.Load() {
			if first == last {
				if firstnext == nil {
					return nil
				}
				q.tail.CompareAndSwap(last, firstnext)
			} else {
				fun := firstnext.fun
				if q.head.CompareAndSwap(first, firstnext) {
					q.len.Add(^uint64(0))
					first.fun = nil
					queueTaskPool.Put(first)
					return fun
				}
			}
		}
	}
}

// Flush runs the queued tasks in order until the queue is empty,
// including tasks posted by the tasks themselves, and returns
// how many it ran.
func (q *Queue) Flush() int {
	n := 0
	for fun := q.next(); fun != nil; fun = q.next() {
		fun()
		n++
	}
	return n
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	return int(q.len.Load())
}
