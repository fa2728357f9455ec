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

package rhash

import "unsafe"

// tableFingerprint captures enough of a bucketTable's identity to detect a
// rehash that happened behind an unsafe iterator's back.
type tableFingerprint struct {
	ptr  uintptr
	cap  int
	used int
}

func fingerprintOf[K comparable, V any](bt bucketTable[K, V]) tableFingerprint {
	var ptr uintptr
	if len(bt.buckets) > 0 {
		ptr = uintptr(unsafe.Pointer(&bt.buckets[0]))
	}
	return tableFingerprint{ptr: ptr, cap: len(bt.buckets), used: bt.used}
}

// Iterator walks every entry in a Table. A safe iterator pauses incremental rehashing for as long as it is held open, at the cost
// of blocking table growth. An unsafe iterator never blocks rehashing;
// instead, Release reports whether the table structure changed underneath
// it, but only when Table.DebugUnsafeIterators is set, matching spec's
// "enforced only in debug builds".
type Iterator[K comparable, V any] struct {
	t safeTable[K, V]

	safe     bool
	released bool

	fp0, fp1 tableFingerprint

	idx  int
	slot uint64
	cur  *entry[K, V]
}

type safeTable[K comparable, V any] struct {
	table *Table[K, V]
}

// NewIterator returns an Iterator over t. When safe is true, the iterator
// holds back rehash steps until Release is called.
func NewIterator[K comparable, V any](t *Table[K, V], safe bool) *Iterator[K, V] {
	t.mu.Lock()
	defer t.mu.Unlock()

	it := &Iterator[K, V]{
		t:    safeTable[K, V]{table: t},
		safe: safe,
	}

	if safe {
		t.iteratorsActive++
	} else {
		it.fp0 = fingerprintOf[K, V](t.t[0])
		it.fp1 = fingerprintOf[K, V](t.t[1])
	}

	return it
}

// Next advances the iterator and reports whether a new key/value pair is
// available via Key/Value.
func (it *Iterator[K, V]) Next() bool {
	t := it.t.table
	t.mu.Lock()
	defer t.mu.Unlock()

	if it.cur != nil {
		it.cur = it.cur.next
	}

	for it.cur == nil {
		bt := &t.t[it.idx]
		if int(it.slot) >= len(bt.buckets) {
			if it.idx == 0 && t.rehashing() {
				it.idx = 1
				it.slot = 0
				continue
			}
			return false
		}
		it.cur = bt.buckets[it.slot]
		it.slot++
	}

	return true
}

// Key returns the current entry's key. Only valid after Next returns true.
func (it *Iterator[K, V]) Key() K {
	return it.cur.key
}

// Value returns the current entry's value. Only valid after Next returns
// true.
func (it *Iterator[K, V]) Value() V {
	return it.cur.val
}

// Release ends the iteration. For a safe iterator it resumes incremental
// rehashing. For an unsafe iterator it reports whether the underlying
// tables were reallocated during iteration; the report is only populated
// when Table.DebugUnsafeIterators is true, otherwise it always returns
// false.
func (it *Iterator[K, V]) Release() (structureChanged bool) {
	if it.released {
		return false
	}
	it.released = true

	t := it.t.table
	t.mu.Lock()
	defer t.mu.Unlock()

	if it.safe {
		t.iteratorsActive--
		return false
	}

	if !t.DebugUnsafeIterators {
		return false
	}

	return fingerprintOf[K, V](t.t[0]) != it.fp0 || fingerprintOf[K, V](t.t[1]) != it.fp1
}
