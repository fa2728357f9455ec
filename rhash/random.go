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

// Entry is a key/value pair returned by Sample.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// RandomEntry returns an arbitrary stored entry. Returns false if the
// table is empty.
func (t *Table[K, V]) RandomEntry() (K, V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zeroK K
	var zeroV V

	if t.t[0].used+t.t[1].used == 0 {
		return zeroK, zeroV, false
	}

	for attempt := 0; attempt < 500; attempt++ {
		idx := 0
		if t.rehashing() && t.rnd.Intn(2) == 1 {
			idx = 1
		}
		bt := &t.t[idx]
		if bt.used == 0 || len(bt.buckets) == 0 {
			continue
		}

		slot := t.rnd.Intn(len(bt.buckets))
		head := bt.buckets[slot]
		if head == nil {
			continue
		}

		count := 0
		for e := head; e != nil; e = e.next {
			count++
		}
		skip := t.rnd.Intn(count)
		e := head
		for i := 0; i < skip; i++ {
			e = e.next
		}
		return e.key, e.val, true
	}

	for idx := 0; idx < 2; idx++ {
		for _, e := range t.t[idx].buckets {
			if e != nil {
				return e.key, e.val, true
			}
		}
	}

	return zeroK, zeroV, false
}

// Sample returns up to n entries. It is a best-effort walk starting at a
// random bucket, not a statistically uniform sample.
func (t *Table[K, V]) Sample(n int) []Entry[K, V] {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n <= 0 {
		return nil
	}

	out := make([]Entry[K, V], 0, n)

	for idx := 0; idx < 2; idx++ {
		bt := &t.t[idx]
		if len(bt.buckets) == 0 || bt.used == 0 {
			continue
		}

		start := t.rnd.Intn(len(bt.buckets))
		for i := 0; i < len(bt.buckets) && len(out) < n; i++ {
			slot := (start + i) % len(bt.buckets)
			for e := bt.buckets[slot]; e != nil && len(out) < n; e = e.next {
				out = append(out, Entry[K, V]{Key: e.key, Value: e.val})
			}
		}

		if idx == 0 && !t.rehashing() {
			break
		}
		if len(out) >= n {
			break
		}
	}

	return out
}
