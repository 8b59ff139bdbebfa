package clock

import (
	"container/heap"
	"sync"
	"time"
)

// Virtual is a deterministic Scheduler for tests and simulations. Time only
// moves when Advance is called, and due callbacks run on the goroutine that
// called Advance, in deadline order (ties fire in scheduling order).
type Virtual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers virtualHeap
}

// NewVirtual creates a Virtual scheduler starting at the given time.
// If zero time is provided, uses current time.
func NewVirtual(start time.Time) *Virtual {
	if start.IsZero() {
		start = time.Now()
	}
	return &Virtual{now: start}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// AfterFunc schedules f to run once virtual time reaches Now()+d.
func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	t := &virtualTimer{
		v:    v,
		when: v.now.Add(d),
		seq:  v.seq,
		fn:   f,
	}
	v.seq++
	heap.Push(&v.timers, t)
	return t
}

// Advance moves virtual time forward by d, firing every callback that comes
// due on the way, including callbacks scheduled by callbacks. Advance(0)
// fires zero-delay callbacks only.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		if len(v.timers) == 0 || v.timers[0].when.After(target) {
			v.now = target
			v.mu.Unlock()
			return
		}
		t := heap.Pop(&v.timers).(*virtualTimer)
		if t.when.After(v.now) {
			v.now = t.when
		}
		v.mu.Unlock()

		t.fn()
	}
}

// Pending returns the number of callbacks that have not fired or been stopped.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.timers)
}

type virtualTimer struct {
	v     *Virtual
	when  time.Time
	seq   uint64
	fn    func()
	index int
}

func (t *virtualTimer) Stop() bool {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()

	if t.index < 0 {
		return false
	}
	heap.Remove(&t.v.timers, t.index)
	return true
}

type virtualHeap []*virtualTimer

func (h virtualHeap) Len() int { return len(h) }

func (h virtualHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h virtualHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *virtualHeap) Push(x any) {
	t := x.(*virtualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *virtualHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
