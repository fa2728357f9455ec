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

package timingwheel

// allocNode returns the arena index of a fresh or recycled node. Caller
// must hold w.mu.
func (w *Wheel) allocNode() int32 {
	if n := len(w.free); n > 0 {
		idx := w.free[n-1]
		w.free = w.free[:n-1]
		nd := &w.arena[idx]
		nd.inUse = true
		nd.next = -1
		nd.prev = -1
		return idx
	}

	w.arena = append(w.arena, node{inUse: true, next: -1, prev: -1})
	return int32(len(w.arena) - 1)
}

// freeNode returns idx to the free list, bumping its generation so stale
// TimerIDs referencing it fail Remove. Caller must hold w.mu.
func (w *Wheel) freeNode(idx int32) {
	n := &w.arena[idx]
	n.inUse = false
	n.gen++
	n.callback = nil
	n.userData = nil
	w.free = append(w.free, idx)
}

// linkTail inserts node idx at the tail of the circular doubly-linked list
// for (level, slot). Caller must hold w.mu.
func (w *Wheel) linkTail(idx int32, lvl, slot int) {
	n := &w.arena[idx]
	n.level = int8(lvl)
	n.slot = int32(slot)

	head := w.levels[lvl].slots[slot]
	if head == -1 {
		n.next = idx
		n.prev = idx
		w.levels[lvl].slots[slot] = idx
		return
	}

	tail := w.arena[head].prev
	n.prev = tail
	n.next = head
	w.arena[tail].next = idx
	w.arena[head].prev = idx
}

// unlink removes node idx from whichever slot list currently holds it; a
// node already detached by spliceAll is left as is. Caller must hold w.mu.
func (w *Wheel) unlink(idx int32) {
	n := &w.arena[idx]
	lvl, slot := int(n.level), int(n.slot)

	if n.next == -1 {
		return
	}

	if n.next == idx {
		w.levels[lvl].slots[slot] = -1
	} else {
		w.arena[n.prev].next = n.next
		w.arena[n.next].prev = n.prev
		if w.levels[lvl].slots[slot] == idx {
			w.levels[lvl].slots[slot] = n.next
		}
	}

	n.next = -1
	n.prev = -1
}

// spliceAll detaches the entire list at (level, slot) and returns its node
// indices in list order, leaving the slot empty. Caller must hold w.mu.
func (w *Wheel) spliceAll(lvl, slot int) []int32 {
	head := w.levels[lvl].slots[slot]
	if head == -1 {
		return nil
	}
	w.levels[lvl].slots[slot] = -1

	var out []int32
	n := head
	for {
		next := w.arena[n].next
		w.arena[n].next = -1
		w.arena[n].prev = -1
		out = append(out, n)
		if next == head {
			break
		}
		n = next
	}

	return out
}
