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

package ringbuffer

import "sync/atomic"

// BlockRing is a power-of-two-sized, lock-free single-producer/
// single-consumer ring of T, using atomic head/tail indices with
// release/acquire ordering (per spec §5's ring-blocks concurrency policy).
type BlockRing[T any] struct {
	mask uint64
	buf  []T

	head atomic.Uint64 // next slot the consumer will read
	tail atomic.Uint64 // next slot the producer will write
}

// NewBlockRing returns a BlockRing with capacity rounded up to the next
// power of two (minimum 2).
func NewBlockRing[T any](capacity int) *BlockRing[T] {
	n := nextPow2(capacity)
	if n < 2 {
		n = 2
	}

	return &BlockRing[T]{
		mask: uint64(n - 1),
		buf:  make([]T, n),
	}
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Cap returns the ring's fixed capacity.
func (b *BlockRing[T]) Cap() int {
	return len(b.buf)
}

// Len returns the number of items currently queued. Safe to call from
// either the producer or consumer goroutine; may be stale by the time the
// caller acts on it.
func (b *BlockRing[T]) Len() int {
	return int(b.tail.Load() - b.head.Load())
}

// TryPush attempts to enqueue v without blocking. Returns false if the ring
// is full. Must only be called from the single producer goroutine.
func (b *BlockRing[T]) TryPush(v T) bool {
	head := b.head.Load() // acquire: synchronises with the consumer's advance
	tail := b.tail.Load()

	if tail-head >= uint64(len(b.buf)) {
		return false
	}

	b.buf[tail&b.mask] = v
	b.tail.Store(tail + 1) // release: publishes the write to the consumer

	return true
}

// TryPop attempts to dequeue one item without blocking. Returns the zero
// value and false if the ring is empty. Must only be called from the single
// consumer goroutine.
func (b *BlockRing[T]) TryPop() (T, bool) {
	var zero T

	head := b.head.Load()
	tail := b.tail.Load() // acquire: synchronises with the producer's publish

	if head == tail {
		return zero, false
	}

	v := b.buf[head&b.mask]
	b.buf[head&b.mask] = zero
	b.head.Store(head + 1) // release: frees the slot for the producer

	return v, true
}
