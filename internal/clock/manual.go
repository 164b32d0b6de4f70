package clock

import (
	"container/heap"
	"sync"
	"time"
)

// Manual is a virtual-time Scheduler for tests.
//
// Nothing fires until Advance is called. Callbacks run synchronously on the
// goroutine calling Advance, outside the clock's lock, so they may schedule
// or stop other timers.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	queue timerHeap
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now implements Scheduler.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	return m.add(d, 0, fn)
}

// Every implements Scheduler.
func (m *Manual) Every(interval time.Duration, fn func()) Timer {
	if interval <= 0 {
		panic("clock: non-positive interval")
	}
	return m.add(interval, interval, fn)
}

func (m *Manual) add(delay, interval time.Duration, fn func()) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if delay < 0 {
		delay = 0
	}
	m.seq++
	t := &manualTimer{
		clock:    m,
		when:     m.now.Add(delay),
		seq:      m.seq,
		interval: interval,
		fn:       fn,
	}
	heap.Push(&m.queue, t)
	return t
}

// Advance moves virtual time forward by d, firing every callback that
// becomes due, in deadline order. Callbacks scheduled during Advance with
// a deadline inside the window also fire.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		if len(m.queue) == 0 || m.queue[0].when.After(target) {
			m.now = target
			m.mu.Unlock()
			return
		}

		t := heap.Pop(&m.queue).(*manualTimer)
		m.now = t.when
		if t.interval > 0 {
			m.seq++
			t.when = t.when.Add(t.interval)
			t.seq = m.seq
			heap.Push(&m.queue, t)
		} else {
			t.done = true
		}
		fn := t.fn
		m.mu.Unlock()

		fn()
	}
}

// Pending returns the number of timers still scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

type manualTimer struct {
	clock    *Manual
	when     time.Time
	seq      uint64
	interval time.Duration
	fn       func()
	index    int
	done     bool
	stopped  bool
}

func (t *manualTimer) Stop() bool {
	m := t.clock
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.stopped || t.done {
		return false
	}
	t.stopped = true
	if t.index >= 0 && t.index < len(m.queue) && m.queue[t.index] == t {
		heap.Remove(&m.queue, t.index)
	}
	return true
}

// timerHeap orders timers by deadline, then by registration order.
type timerHeap []*manualTimer

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
	t := x.(*manualTimer)
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
