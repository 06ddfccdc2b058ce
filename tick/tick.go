// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tick provides an explicit, single-threaded task queue.
//
// Work posted to a [Queue] does not run until the owner of the queue turns
// it. Components use this to acknowledge a request immediately and act on it
// later, batching everything that arrived in between.
package tick

import (
	"fmt"

	"github.com/petermattis/goid"
)

// Scheduler accepts tasks to run on a later turn.
type Scheduler interface {
	Post(task func())
}

// Queue is a FIFO of deferred tasks.
//
// A Queue belongs to the goroutine that created it; calling any of its
// methods from another goroutine panics.
type Queue struct {
	owner int64
	tasks []func()
}

var _ Scheduler = (*Queue)(nil)

// NewQueue returns an empty queue owned by the calling goroutine.
func NewQueue() *Queue {
	return &Queue{owner: goid.Get()}
}

func (q *Queue) check() {
	if id := goid.Get(); id != q.owner {
		panic(fmt.Sprintf("tick: queue owned by goroutine %d used from goroutine %d", q.owner, id))
	}
}

// Post appends task to the queue.
func (q *Queue) Post(task func()) {
	q.check()
	q.tasks = append(q.tasks, task)
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.check()
	return len(q.tasks)
}

// Turn runs every task that was pending when Turn was called, in order.
// Tasks posted while the turn is running wait for the next turn.
//
// Returns the number of tasks run.
func (q *Queue) Turn() int {
	q.check()
	tasks := q.tasks
	q.tasks = nil
	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

// Drain turns the queue until it is empty. Returns the total number of tasks
// run.
func (q *Queue) Drain() int {
	var n int
	for q.Len() > 0 {
		n += q.Turn()
	}
	return n
}
