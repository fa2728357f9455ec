/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package workerpool implements a fixed-size worker thread pool with
// urgent/normal task priority and free-list task recycling.
package workerpool

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultFreeListMax is the default cap on recycled task structs, mirroring
// the original's default of 1000.
const DefaultFreeListMax = 1000

// Hook is a per-worker lifecycle callback, run on the owning worker
// goroutine itself so it can establish thread-affine state (e.g. dbpool's
// per-connection GORM session).
type Hook func(workerID int)

// Pool is a fixed-worker task runner. Tasks submitted with urgent=true are
// inserted at the head of the ready ring; otherwise at the tail. Stop drains
// every task already in the ring before any worker exits: no task is ever
// silently dropped.
type Pool struct {
	mu   sync.Mutex
	cond *sync.Cond

	ready []*task
	free  []*task

	freeListMax int

	running atomic.Bool
	active  atomic.Int64

	onStart Hook
	onStop  Hook

	grp *errgroup.Group
}

// New returns a Pool with the default free-list cap and no lifecycle hooks.
func New() *Pool {
	p := &Pool{
		freeListMax: DefaultFreeListMax,
	}
	p.cond = sync.NewCond(&p.mu)

	return p
}

// Active returns the number of workers currently executing a task, for the
// monitor package's worker-pool gauge.
func (p *Pool) Active() int64 {
	return p.active.Load()
}

// Queued returns the number of tasks waiting in the ready ring.
func (p *Pool) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ready)
}

// SetFreeListMax overrides the free-list cap. Must be called before Start.
func (p *Pool) SetFreeListMax(n int) {
	if n < 0 {
		n = 0
	}
	p.freeListMax = n
}

// SetHooks installs per-worker start/stop callbacks. Must be called before
// Start. Either may be nil.
func (p *Pool) SetHooks(onStart, onStop Hook) {
	p.onStart = onStart
	p.onStop = onStop
}

// Start launches n worker goroutines. Returns ErrorParamInvalid for n ≤ 0
// and ErrorAlreadyRunning if the pool is already started.
func (p *Pool) Start(n int) error {
	if n <= 0 {
		return ErrorParamInvalid.Error(nil)
	}
	if !p.running.CompareAndSwap(false, true) {
		return ErrorAlreadyRunning.Error(nil)
	}

	p.grp = &errgroup.Group{}
	for i := 0; i < n; i++ {
		id := i
		p.grp.Go(func() error {
			p.runWorker(id)
			return nil
		})
	}

	return nil
}

// Stop signals every worker to exit once the ready ring drains and blocks
// until all of them have returned. Tasks already dequeued by a worker run
// to completion; tasks still queued are dequeued and run before the owning
// worker observes the stop and exits (full drain, no silent drop — see
// DESIGN.md's thread-pool drain-semantics resolution).
func (p *Pool) Stop() error {
	if !p.running.CompareAndSwap(true, false) {
		return ErrorNotRunning.Error(nil)
	}

	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()

	if p.grp != nil {
		_ = p.grp.Wait()
	}

	return nil
}

// Submit enqueues fn to run with data as its argument. Returns false if the
// pool is not running.
func (p *Pool) Submit(fn func(data any), data any, urgent bool) bool {
	if !p.running.Load() {
		return false
	}

	t := p.acquireTask()
	t.fn = fn
	t.data = data

	p.enqueue(t, urgent)
	return true
}

// SubmitMethod enqueues a bound method call: method(self, data). Returns
// false if the pool is not running.
func (p *Pool) SubmitMethod(method func(self, data any), self, data any, urgent bool) bool {
	if !p.running.Load() {
		return false
	}

	t := p.acquireTask()
	t.method = method
	t.self = self
	t.data = data

	p.enqueue(t, urgent)
	return true
}

func (p *Pool) enqueue(t *task, urgent bool) {
	p.mu.Lock()
	if urgent {
		p.ready = append([]*task{t}, p.ready...)
	} else {
		p.ready = append(p.ready, t)
	}
	p.cond.Signal()
	p.mu.Unlock()
}

func (p *Pool) acquireTask() *task {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.free); n > 0 {
		t := p.free[n-1]
		p.free = p.free[:n-1]
		return t
	}
	return &task{}
}

func (p *Pool) releaseTask(t *task) {
	t.reset()

	p.mu.Lock()
	if len(p.free) < p.freeListMax {
		p.free = append(p.free, t)
	}
	p.mu.Unlock()
}

func (p *Pool) runWorker(id int) {
	if p.onStart != nil {
		p.onStart(id)
	}
	if p.onStop != nil {
		defer p.onStop(id)
	}

	for {
		p.mu.Lock()
		for len(p.ready) == 0 && p.running.Load() {
			p.cond.Wait()
		}

		if len(p.ready) == 0 {
			p.mu.Unlock()
			return
		}

		t := p.ready[0]
		p.ready = p.ready[1:]
		p.mu.Unlock()

		p.active.Add(1)
		t.run()
		p.active.Add(-1)

		p.releaseTask(t)
	}
}
