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

// Package mpmcqueue implements a bounded multi-producer/multi-consumer queue
// with a double-buffered read/write list, so the common path only ever takes
// one of the two mutexes.
package mpmcqueue

import (
	"sync"
	"sync/atomic"
)

// Queue is a bounded MPMC queue of T. Producers append to an internal write
// list guarded by writeMu; consumers drain an internal read list guarded by
// readMu, swapping the two lists (under writeMu) once the read list empties.
type Queue[T any] struct {
	readMu   sync.Mutex
	readCond *sync.Cond
	readList []T

	writeMu   sync.Mutex
	writeCond *sync.Cond
	writeList []T

	max   int64
	count atomic.Int64

	blockRead  atomic.Bool
	blockWrite atomic.Bool
	shutdown   atomic.Bool
}

// New returns a Queue bounded at max items, blocking by default on both
// Push and Pop.
func New[T any](max int) *Queue[T] {
	q := &Queue[T]{
		max: int64(max),
	}
	q.readCond = sync.NewCond(&q.readMu)
	q.writeCond = sync.NewCond(&q.writeMu)
	q.blockRead.Store(true)
	q.blockWrite.Store(true)

	return q
}

// Len reports the total number of items currently queued across both
// internal lists.
func (q *Queue[T]) Len() int {
	return int(q.count.Load())
}

// SetBlocking toggles whether Push (write) and/or Pop (read) block when the
// queue is full or empty, respectively. Any goroutine already waiting is
// woken so it can re-evaluate under the new setting.
func (q *Queue[T]) SetBlocking(read, write bool) {
	q.blockRead.Store(read)
	q.blockWrite.Store(write)

	q.readMu.Lock()
	q.readCond.Broadcast()
	q.readMu.Unlock()

	q.writeMu.Lock()
	q.writeCond.Broadcast()
	q.writeMu.Unlock()
}

// Shutdown wakes every waiter and turns subsequent Push/Pop calls into
// immediate ErrorShutdown returns.
func (q *Queue[T]) Shutdown() {
	q.shutdown.Store(true)

	q.readMu.Lock()
	q.readCond.Broadcast()
	q.readMu.Unlock()

	q.writeMu.Lock()
	q.writeCond.Broadcast()
	q.writeMu.Unlock()
}

// Push appends item to the queue. When block is true and blocking-write is
// enabled, it waits for room; otherwise it returns ErrorFull immediately.
func (q *Queue[T]) Push(item T, block bool) error {
	if q.shutdown.Load() {
		return ErrorShutdown.Error(nil)
	}

	q.writeMu.Lock()
	for q.count.Load() >= q.max {
		if q.shutdown.Load() {
			q.writeMu.Unlock()
			return ErrorShutdown.Error(nil)
		}
		if !block || !q.blockWrite.Load() {
			q.writeMu.Unlock()
			return ErrorFull.Error(nil)
		}
		q.writeCond.Wait()
	}

	if q.shutdown.Load() {
		q.writeMu.Unlock()
		return ErrorShutdown.Error(nil)
	}

	q.writeList = append(q.writeList, item)
	q.count.Add(1)
	q.writeMu.Unlock()

	q.readMu.Lock()
	q.readCond.Signal()
	q.readMu.Unlock()

	return nil
}

// Pop removes and returns the oldest item. When block is true and
// blocking-read is enabled, it waits for an item; otherwise it returns
// ErrorEmpty immediately.
func (q *Queue[T]) Pop(block bool) (T, error) {
	var zero T

	q.readMu.Lock()
	for len(q.readList) == 0 {
		if q.swapIn() {
			break
		}
		if q.shutdown.Load() {
			q.readMu.Unlock()
			return zero, ErrorShutdown.Error(nil)
		}
		if !block || !q.blockRead.Load() {
			q.readMu.Unlock()
			return zero, ErrorEmpty.Error(nil)
		}
		q.readCond.Wait()
	}

	item := q.readList[0]
	q.readList = q.readList[1:]
	q.count.Add(-1)
	q.readMu.Unlock()

	q.writeMu.Lock()
	q.writeCond.Signal()
	q.writeMu.Unlock()

	return item, nil
}

// swapIn atomically swaps the write list into the read list, caller must
// hold readMu. Returns true if the read list is non-empty afterward.
func (q *Queue[T]) swapIn() bool {
	q.writeMu.Lock()
	if len(q.writeList) == 0 {
		q.writeMu.Unlock()
		return false
	}

	q.readList, q.writeList = q.writeList, q.readList[:0]
	q.writeMu.Unlock()

	return true
}
