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

// Package timingwheel implements a five-level cascading timing wheel for
// O(1) amortised timer insertion, cancellation, and firing. Slot lists are
// expressed as an arena of nodes addressed by index rather than raw
// pointers, each node forming a circular doubly-linked list within its
// slot so link/unlink stays O(1) without needing per-node heap pointers.
package timingwheel

import (
	"context"
	"sync"
	"time"
)

const (
	rootSlots    = 256
	cascadeSlots = 64

	rootRange = 1 << 8
	c1Range   = 1 << 14
	c2Range   = 1 << 20
	c3Range   = 1 << 26

	maxSteps = 1 << 30
)

// TimerID identifies a scheduled timer. The generation field guards against
// a Remove call racing a slot reuse after the timer already fired or was
// removed.
type TimerID struct {
	index uint32
	gen   uint32
}

// Callback is invoked when a timer fires, on the goroutine that called
// Update (directly, or via Run's ticker loop).
type Callback func(id TimerID, userData any)

type node struct {
	inUse bool
	gen   uint32

	targetStep uint64
	cycleStep  uint64
	repeat     int

	callback Callback
	userData any

	next, prev int32
	level      int8
	slot       int32
}

type level struct {
	slots []int32
}

// Wheel is a cascading timing wheel. All exported methods are safe for
// concurrent use.
type Wheel struct {
	mu sync.Mutex

	intervalMs int64
	anchorMs   int64
	step       uint64
	started    bool

	levels [5]level

	arena []node
	free  []int32
}

// New returns a Wheel that advances one step per interval. interval ≤ 0 is
// clamped to 1ms.
func New(interval time.Duration) *Wheel {
	if interval <= 0 {
		interval = time.Millisecond
	}

	w := &Wheel{
		intervalMs: interval.Milliseconds(),
	}
	if w.intervalMs <= 0 {
		w.intervalMs = 1
	}

	w.levels[0].slots = newEmptySlots(rootSlots)
	for i := 1; i <= 4; i++ {
		w.levels[i].slots = newEmptySlots(cascadeSlots)
	}

	return w
}

func newEmptySlots(n int) []int32 {
	s := make([]int32, n)
	for i := range s {
		s[i] = -1
	}
	return s
}

// Add schedules callback to fire after period, repeating repeat more times
// (-1 = forever, 0 = once). period is rounded up to whole steps and clamped
// to 2^30 steps, per spec.
func (w *Wheel) Add(callback Callback, userData any, period time.Duration, repeat int) TimerID {
	steps := w.stepsFor(period)

	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.allocNode()
	n := &w.arena[idx]
	n.callback = callback
	n.userData = userData
	n.cycleStep = steps
	n.repeat = repeat
	n.targetStep = w.step + steps

	lvl, slot := w.classify(int64(n.targetStep)-int64(w.step), n.targetStep, w.step)
	w.linkTail(idx, lvl, slot)

	return TimerID{index: uint32(idx), gen: n.gen}
}

func (w *Wheel) stepsFor(period time.Duration) uint64 {
	ms := period.Milliseconds()
	if ms <= 0 {
		return 1
	}

	steps := (ms + w.intervalMs - 1) / w.intervalMs
	if steps <= 0 {
		steps = 1
	}
	if steps > maxSteps {
		steps = maxSteps
	}

	return uint64(steps)
}

// Remove cancels a pending timer. Returns false if the id is stale (already
// fired, already removed, or never issued by this Wheel).
func (w *Wheel) Remove(id TimerID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := int32(id.index)
	if idx < 0 || int(idx) >= len(w.arena) {
		return false
	}

	n := &w.arena[idx]
	if !n.inUse || n.gen != id.gen {
		return false
	}

	w.unlink(idx)
	w.freeNode(idx)

	return true
}

// Clear removes every pending timer without firing callbacks.
func (w *Wheel) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.levels {
		for s := range w.levels[i].slots {
			w.levels[i].slots[s] = -1
		}
	}
	w.arena = w.arena[:0]
	w.free = w.free[:0]
	w.step = 0
	w.started = false
}

// classify picks the level/slot a node with the given target step belongs
// in, per spec §4.3's range table. diff is target-step minus current-step;
// a non-positive diff (the node is already due, including wrap-around
// overflow) buckets into the current root slot so it fires on the very
// next tick.
func (w *Wheel) classify(diff int64, target, current uint64) (lvl int, slot int) {
	if diff <= 0 {
		return 0, int(current & 0xFF)
	}

	d := uint64(diff)
	switch {
	case d < rootRange:
		return 0, int(target & 0xFF)
	case d < c1Range:
		return 1, int((target >> 8) & 0x3F)
	case d < c2Range:
		return 2, int((target >> 14) & 0x3F)
	case d < c3Range:
		return 3, int((target >> 20) & 0x3F)
	default:
		return 4, int((target >> 26) & 0x3F)
	}
}

// Update advances the wheel to the wall-clock time now, firing every timer
// whose target step has been reached. Callbacks run outside the internal
// lock. A jump of more than 5 intervals resyncs the anchor and advances a
// single step, to avoid a thundering-herd replay after a long stall.
func (w *Wheel) Update(now time.Time) {
	nm := now.UnixMilli()

	w.mu.Lock()
	if !w.started {
		w.anchorMs = nm
		w.started = true
		w.mu.Unlock()
		return
	}

	delta := nm - w.anchorMs
	if delta <= 0 {
		w.mu.Unlock()
		return
	}

	var steps int64
	if delta > 5*w.intervalMs {
		w.anchorMs = nm
		steps = 1
	} else {
		steps = delta / w.intervalMs
		w.anchorMs += steps * w.intervalMs
	}
	w.mu.Unlock()

	for i := int64(0); i < steps; i++ {
		w.advanceOneStep()
	}
}

func (w *Wheel) advanceOneStep() {
	w.mu.Lock()
	w.step++
	rootIdx := int(w.step & 0xFF)
	if rootIdx == 0 {
		w.cascade(1)
	}
	due := w.spliceAll(0, rootIdx)
	w.mu.Unlock()

	for _, idx := range due {
		w.fire(idx)
	}
}

// cascade splices the current slot at level and, if that slot's index is
// itself 0, recursively cascades the next level up, before reinserting
// every spliced node via the ordinary classify+link path. Caller must hold
// w.mu.
func (w *Wheel) cascade(lvl int) {
	if lvl > 4 {
		return
	}

	shift := 8 + 6*(lvl-1)
	idx := int((w.step >> uint(shift)) & 0x3F)

	nodes := w.spliceAll(lvl, idx)

	if idx == 0 {
		w.cascade(lvl + 1)
	}

	for _, n := range nodes {
		target := w.arena[n].targetStep
		l, s := w.classify(int64(target)-int64(w.step), target, w.step)
		w.linkTail(n, l, s)
	}
}

// fire invokes a due node's callback outside the lock, then reinserts it if
// it repeats or frees it otherwise.
func (w *Wheel) fire(idx int32) {
	w.mu.Lock()
	n := &w.arena[idx]
	cb := n.callback
	ud := n.userData
	repeat := n.repeat
	cycle := n.cycleStep
	gen := n.gen
	w.mu.Unlock()

	if cb != nil {
		cb(TimerID{index: uint32(idx), gen: gen}, ud)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	n = &w.arena[idx]
	if !n.inUse {
		// callback removed itself; nothing left to reinsert.
		return
	}

	if repeat == 0 || cycle == 0 {
		w.unlink(idx)
		w.freeNode(idx)
		return
	}

	if repeat > 0 {
		n.repeat--
	}
	n.targetStep = w.step + cycle
	l, s := w.classify(int64(n.targetStep)-int64(w.step), n.targetStep, w.step)
	w.linkTail(idx, l, s)
}

// Run blocks, calling Update on every tick of an internal ticker at the
// wheel's configured interval, until ctx is cancelled.
func (w *Wheel) Run(ctx context.Context) {
	interval := time.Duration(w.intervalMs) * time.Millisecond
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			w.Update(now)
		}
	}
}
