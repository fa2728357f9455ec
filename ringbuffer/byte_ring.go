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

// Package ringbuffer implements the byte-oriented ring buffer (ByteRing)
// feeding the reliable-datagram protocol and the HTTP parser, plus the
// lock-free block-oriented ring (BlockRing) feeding the reliable protocol's
// segment pipeline. Grounded on original_source/Include/RingBlocks.h and
// Source/RingBuffer.cpp (a linked list of fixed-size cache nodes for the
// byte ring, a power-of-two atomic-indexed slot array for the block ring).
package ringbuffer

// DefaultNodeSize is the fixed per-node capacity, mirroring the original's
// 4 KiB cache-node default.
const DefaultNodeSize = 4096

type node struct {
	buf  []byte
	next *node
}

// ByteRing is a single-producer/single-consumer, unsynchronised byte ring
// buffer backed by a linked list of fixed-size nodes. Callers MUST ensure
// only one goroutine calls Write and only one (possibly different) goroutine
// calls Read concurrently; per spec §5 this component carries no internal
// locking.
type ByteRing struct {
	nodeSize int

	head    *node
	headOff int

	tail    *node
	tailOff int

	free *node

	size int // bytes currently buffered
}

// NewByteRing returns a ByteRing whose nodes are nodeSize bytes each. A
// nodeSize ≤ 0 selects DefaultNodeSize.
func NewByteRing(nodeSize int) *ByteRing {
	if nodeSize <= 0 {
		nodeSize = DefaultNodeSize
	}

	n := &node{buf: make([]byte, nodeSize)}

	return &ByteRing{
		nodeSize: nodeSize,
		head:     n,
		tail:     n,
	}
}

// Len reports the number of unread bytes currently buffered.
func (r *ByteRing) Len() int {
	return r.size
}

func (r *ByteRing) allocNode() *node {
	if r.free != nil {
		n := r.free
		r.free = n.next
		n.next = nil
		return n
	}
	return &node{buf: make([]byte, r.nodeSize)}
}

// Write appends p to the tail of the ring, allocating additional nodes as
// needed. It never blocks and never fails: the ring grows to fit.
func (r *ByteRing) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		if r.tailOff == r.nodeSize {
			nn := r.allocNode()
			r.tail.next = nn
			r.tail = nn
			r.tailOff = 0
		}

		c := copy(r.tail.buf[r.tailOff:], p)
		r.tailOff += c
		r.size += c
		n += c
		p = p[c:]
	}

	return n, nil
}

// Read consumes up to len(p) bytes from the head of the ring, freeing nodes
// lazily by returning them to the free list for reuse at the tail. Returns
// (0, nil) when the ring is empty (no error: emptiness is not a failure for
// a byte stream).
func (r *ByteRing) Read(p []byte) (n int, err error) {
	for len(p) > 0 && r.size > 0 {
		limit := r.nodeSize
		if r.head == r.tail {
			limit = r.tailOff
		}

		if r.headOff >= limit {
			// current node exhausted; since size > 0 there must be a
			// next node to advance into.
			old := r.head
			r.head = r.head.next
			r.headOff = 0
			old.next = r.free
			r.free = old
			continue
		}

		c := copy(p, r.head.buf[r.headOff:limit])
		r.headOff += c
		r.size -= c
		n += c
		p = p[c:]
	}

	return n, nil
}

// Peek returns up to len(p) bytes without consuming them.
func (r *ByteRing) Peek(p []byte) (n int) {
	cur := r.head
	off := r.headOff

	for n < len(p) && cur != nil {
		limit := r.nodeSize
		if cur == r.tail {
			limit = r.tailOff
		}
		if off >= limit {
			if cur == r.tail {
				break
			}
			cur = cur.next
			off = 0
			continue
		}

		c := copy(p[n:], cur.buf[off:limit])
		n += c
		off += c
	}

	return n
}
