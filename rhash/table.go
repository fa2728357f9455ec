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

// Package rhash implements a two-table incremental-rehashing hash table,
// generic over comparable keys and arbitrary values. A single insert,
// lookup, or delete nudges a pending rehash forward by one bucket, so no
// single call ever pays for moving the whole table.
package rhash

import (
	"math/rand"
	"sync"
)

const initialCapacity = 8

// rehashStepBuckets is how many non-empty source buckets one triggered
// rehash step moves, per spec §4.2's "a single step moves one non-empty
// bucket".
const rehashStepBuckets = 1

// emptyBucketSkipFactor bounds how many empty buckets a single rehash step
// may skip before giving up for this call, per spec's "skipping at most
// 10·N empty buckets".
const emptyBucketSkipFactor = 10

// shrinkDisabledRatio is the used/capacity ratio that forces a grow even
// when automatic resizing has been disabled.
const shrinkDisabledRatio = 5

type entry[K comparable, V any] struct {
	hash uint64
	key  K
	val  V
	next *entry[K, V]
}

type bucketTable[K comparable, V any] struct {
	buckets []*entry[K, V]
	used    int
	mask    uint64
}

func newBucketTable[K comparable, V any](capacity int) bucketTable[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return bucketTable[K, V]{
		buckets: make([]*entry[K, V], capacity),
		mask:    uint64(capacity - 1),
	}
}

// Table is a generic incremental-rehashing hash table. All exported
// methods are safe for concurrent use.
type Table[K comparable, V any] struct {
	mu sync.Mutex

	hash func(K) uint64

	t [2]bucketTable[K, V]

	rehashIdx       int
	iteratorsActive int

	resizable bool

	// DebugUnsafeIterators, when true, makes Release on an unsafe
	// iterator report a fingerprint mismatch instead of silently
	// ignoring it (spec: "enforced only in debug builds").
	DebugUnsafeIterators bool

	rnd *rand.Rand
}

// New returns a Table with an initial capacity of 8. hashFn must be
// deterministic for equal keys.
func New[K comparable, V any](hashFn func(K) uint64) *Table[K, V] {
	t := &Table[K, V]{
		hash:      hashFn,
		rehashIdx: -1,
		resizable: true,
		rnd:       rand.New(rand.NewSource(1)),
	}
	t.t[0] = newBucketTable[K, V](initialCapacity)

	return t
}

// SetResizable toggles automatic growth. When disabled, the table still
// grows once its load factor exceeds shrinkDisabledRatio, per spec §4.2's
// growth policy.
func (t *Table[K, V]) SetResizable(v bool) {
	t.mu.Lock()
	t.resizable = v
	t.mu.Unlock()
}

// Len returns the total number of stored entries across both tables.
func (t *Table[K, V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.t[0].used + t.t[1].used
}

func (t *Table[K, V]) rehashing() bool {
	return t.rehashIdx >= 0
}

func (t *Table[K, V]) lookupLocked(k K, h uint64) (*entry[K, V], int) {
	if e := findInBucket(t.t[0], k, h); e != nil {
		return e, 0
	}
	if t.rehashing() {
		if e := findInBucket(t.t[1], k, h); e != nil {
			return e, 1
		}
	}
	return nil, -1
}

func findInBucket[K comparable, V any](bt bucketTable[K, V], k K, h uint64) *entry[K, V] {
	if len(bt.buckets) == 0 {
		return nil
	}
	for e := bt.buckets[h&bt.mask]; e != nil; e = e.next {
		if e.hash == h && e.key == k {
			return e
		}
	}
	return nil
}

// Add inserts k/v. Returns ErrorDuplicate if k is already present.
func (t *Table[K, V]) Add(k K, v V) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.hash(k)
	if e, _ := t.lookupLocked(k, h); e != nil {
		return ErrorDuplicate.Error(nil)
	}

	t.insertLocked(k, v, h)
	t.rehashStepLocked(rehashStepBuckets)
	return nil
}

// AddOrReplace inserts k/v, overwriting any existing value for k.
func (t *Table[K, V]) AddOrReplace(k K, v V) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.hash(k)
	if e, _ := t.lookupLocked(k, h); e != nil {
		e.val = v
	} else {
		t.insertLocked(k, v, h)
	}
	t.rehashStepLocked(rehashStepBuckets)
}

// AddOrFind returns a pointer to k's value, inserting zero if absent. The
// bool result reports whether the entry already existed.
func (t *Table[K, V]) AddOrFind(k K) (value *V, existed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.hash(k)
	if e, _ := t.lookupLocked(k, h); e != nil {
		t.rehashStepLocked(rehashStepBuckets)
		return &e.val, true
	}

	e := t.insertLocked(k, *new(V), h)
	t.rehashStepLocked(rehashStepBuckets)
	return &e.val, false
}

func (t *Table[K, V]) insertLocked(k K, v V, h uint64) *entry[K, V] {
	idx := 0
	if t.rehashing() {
		idx = 1
	}

	e := &entry[K, V]{hash: h, key: k, val: v}
	bt := &t.t[idx]
	slot := h & bt.mask
	e.next = bt.buckets[slot]
	bt.buckets[slot] = e
	bt.used++

	if idx == 0 {
		t.maybeBeginRehashLocked()
	}

	return e
}

func (t *Table[K, V]) maybeBeginRehashLocked() {
	if t.rehashing() {
		return
	}

	cap0 := len(t.t[0].buckets)
	ratio := float64(t.t[0].used) / float64(cap0)

	grow := false
	if t.resizable {
		grow = t.t[0].used >= cap0
	} else {
		grow = ratio > shrinkDisabledRatio
	}

	if !grow {
		return
	}

	t.beginRehashLocked(nextPow2(t.t[0].used * 2))
}

func (t *Table[K, V]) beginRehashLocked(newCapacity int) {
	if newCapacity < initialCapacity {
		newCapacity = initialCapacity
	}
	t.t[1] = newBucketTable[K, V](newCapacity)
	t.rehashIdx = 0
}

// rehashStepLocked moves up to n non-empty buckets from t[0] into t[1],
// skipping at most 10·n empty buckets. No-op while any safe iterator is
// active, or while no rehash is in progress.
func (t *Table[K, V]) rehashStepLocked(n int) {
	if !t.rehashing() || t.iteratorsActive > 0 {
		return
	}

	maxEmpty := emptyBucketSkipFactor * n
	moved := 0
	emptySeen := 0

	for moved < n && emptySeen < maxEmpty {
		if t.rehashIdx >= len(t.t[0].buckets) {
			break
		}

		head := t.t[0].buckets[t.rehashIdx]
		if head == nil {
			t.rehashIdx++
			emptySeen++
			continue
		}

		for e := head; e != nil; {
			next := e.next
			slot := e.hash & t.t[1].mask
			e.next = t.t[1].buckets[slot]
			t.t[1].buckets[slot] = e
			t.t[1].used++
			t.t[0].used--
			e = next
		}
		t.t[0].buckets[t.rehashIdx] = nil
		t.rehashIdx++
		moved++
	}

	if t.t[0].used == 0 && t.rehashIdx >= len(t.t[0].buckets) {
		t.t[0] = t.t[1]
		t.t[1] = bucketTable[K, V]{}
		t.rehashIdx = -1
	}
}

// Find looks up k across both tables.
func (t *Table[K, V]) Find(k K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.hash(k)
	e, _ := t.lookupLocked(k, h)
	t.rehashStepLocked(rehashStepBuckets)

	if e == nil {
		var zero V
		return zero, false
	}
	return e.val, true
}

// Remove deletes k, returning its value and true if it was present.
func (t *Table[K, V]) Remove(k K) (V, bool) {
	return t.removeLocked(k, true)
}

// Unlink removes k without running any caller-side destructor (Go has
// none to run; Unlink differs from Remove only in the vocabulary it
// preserves from spec §4.2, not in behaviour).
func (t *Table[K, V]) Unlink(k K) (V, bool) {
	return t.removeLocked(k, true)
}

func (t *Table[K, V]) removeLocked(k K, step bool) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.hash(k)

	for idx := 0; idx < 2; idx++ {
		if idx == 1 && !t.rehashing() {
			break
		}
		bt := &t.t[idx]
		if len(bt.buckets) == 0 {
			continue
		}
		slot := h & bt.mask
		var prev *entry[K, V]
		for e := bt.buckets[slot]; e != nil; e = e.next {
			if e.hash == h && e.key == k {
				if prev == nil {
					bt.buckets[slot] = e.next
				} else {
					prev.next = e.next
				}
				bt.used--
				if step {
					t.rehashStepLocked(rehashStepBuckets)
				}
				return e.val, true
			}
			prev = e
		}
	}

	if step {
		t.rehashStepLocked(rehashStepBuckets)
	}
	var zero V
	return zero, false
}

// Resize requests a rehash toward the next power of two accommodating the
// current element count, per spec's standalone `resize()` operation.
func (t *Table[K, V]) Resize() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rehashing() {
		return ErrorRehashInProgress.Error(nil)
	}

	target := nextPow2(t.t[0].used)
	if target < initialCapacity {
		target = initialCapacity
	}
	if target == len(t.t[0].buckets) {
		return nil
	}

	t.beginRehashLocked(target)
	return nil
}

// Reallocate forces a rehash to a specific capacity (rounded up to the
// next power of two). Returns ErrorRehashInProgress if a rehash is already
// under way.
func (t *Table[K, V]) Reallocate(n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rehashing() {
		return ErrorRehashInProgress.Error(nil)
	}

	t.beginRehashLocked(nextPow2(n))
	return nil
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
