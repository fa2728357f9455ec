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

import "math/bits"

// Scan visits every bucket reachable from cursor using the reverse-bit
// increment described in spec §4.2, guaranteeing every element present
// across a full scan (cursor 0 → 0) is visited at least once, possibly
// more than once during a concurrent rehash. onBucketDone is called after
// each bucket (or bucket pair, while rehashing) completes; returning false
// aborts the scan early, and Scan then returns 0.
func (t *Table[K, V]) Scan(cursor uint64, onEntry func(k K, v V) bool, onBucketDone func() bool) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.rehashing() {
		mask := t.t[0].mask
		if !visitBucketLocked(t.t[0], cursor&mask, onEntry) {
			return 0
		}
		if onBucketDone != nil && !onBucketDone() {
			return 0
		}
		return advanceCursor(cursor, mask)
	}

	small, big := 0, 1
	if t.t[0].mask > t.t[1].mask {
		small, big = 1, 0
	}
	smallMask := t.t[small].mask
	bigMask := t.t[big].mask

	base := cursor & smallMask
	if !visitBucketLocked(t.t[small], base, onEntry) {
		return 0
	}

	m := base
	for {
		if !visitBucketLocked(t.t[big], m, onEntry) {
			return 0
		}
		m = (m + (smallMask + 1)) & bigMask
		if m == base {
			break
		}
	}

	if onBucketDone != nil && !onBucketDone() {
		return 0
	}

	return advanceCursor(cursor, smallMask)
}

func visitBucketLocked[K comparable, V any](bt bucketTable[K, V], slot uint64, onEntry func(K, V) bool) bool {
	if len(bt.buckets) == 0 {
		return true
	}
	for e := bt.buckets[slot]; e != nil; e = e.next {
		if onEntry != nil && !onEntry(e.key, e.val) {
			return false
		}
	}
	return true
}

// advanceCursor applies the reverse-bit increment: cursor |= ~mask;
// cursor = reverse(cursor); cursor++; cursor = reverse(cursor).
func advanceCursor(cursor, mask uint64) uint64 {
	cursor |= ^mask
	cursor = bits.Reverse64(cursor)
	cursor++
	cursor = bits.Reverse64(cursor)
	return cursor
}
