// Package anim provides the single-goroutine scheduler and the property
// animations used by the list item engine.
//
// Nothing in this package starts goroutines. A Loop only moves forward when
// its owner calls Advance or AdvanceTo, which makes every timer and animation
// deterministic: the application event loop advances it with wall clock time,
// tests advance it by hand.
package anim

import (
	"container/heap"
	"time"
)

// Timer is a one-shot callback scheduled on a Loop.
type Timer struct {
	loop  *Loop
	when  time.Time
	seq   uint64
	f     func()
	index int // Position in the loop heap, -1 when not scheduled.
}

// Stop cancels the timer. It returns false if the timer already fired or was
// stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.index < 0 {
		return false
	}
	heap.Remove(&t.loop.timers, t.index)
	t.index = -1
	return true
}

// Active returns whether the timer is still pending.
func (t *Timer) Active() bool {
	return t != nil && t.index >= 0
}

// Loop is a virtual clock with an ordered timer queue.
type Loop struct {
	now    time.Time
	seq    uint64
	timers timerHeap
}

// NewLoop returns a loop whose clock starts at start.
func NewLoop(start time.Time) *Loop {
	return &Loop{now: start}
}

// Now returns the loop's current time.
func (l *Loop) Now() time.Time {
	return l.now
}

// AfterFunc schedules f to run once the loop has advanced by d.
func (l *Loop) AfterFunc(d time.Duration, f func()) *Timer {
	if d < 0 {
		d = 0
	}
	l.seq++
	t := &Timer{loop: l, when: l.now.Add(d), seq: l.seq, f: f, index: -1}
	heap.Push(&l.timers, t)
	return t
}

// Pending returns the number of scheduled timers.
func (l *Loop) Pending() int {
	return len(l.timers)
}

// Next returns the deadline of the earliest pending timer.
func (l *Loop) Next() (time.Time, bool) {
	if len(l.timers) == 0 {
		return time.Time{}, false
	}
	return l.timers[0].when, true
}

// Advance moves the clock forward by d, firing due timers in deadline order.
func (l *Loop) Advance(d time.Duration) {
	l.AdvanceTo(l.now.Add(d))
}

// AdvanceTo moves the clock to t. Timers scheduled by callbacks are fired in
// the same call when their deadline is not after t. The clock never moves
// backwards.
func (l *Loop) AdvanceTo(t time.Time) {
	for len(l.timers) > 0 {
		next := l.timers[0]
		if next.when.After(t) {
			break
		}
		heap.Pop(&l.timers)
		if next.when.After(l.now) {
			l.now = next.when
		}
		next.f()
	}
	if t.After(l.now) {
		l.now = t
	}
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
