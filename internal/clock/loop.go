package clock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultQueueSize is the task buffer used by the production loop.
const DefaultQueueSize = 256

// ErrLoopStopped is returned when work is posted to a loop that has exited.
var ErrLoopStopped = errors.New("clock: loop stopped")

// Loop is a single-goroutine executor that also acts as a Scheduler.
//
// Timer callbacks fire on a runtime timer goroutine, which only posts them
// into the loop's queue. The loop goroutine is the only place callbacks and
// posted actions actually execute.
//
// Thread Safety:
//   - Do, Call, AfterFunc and Every may be called from any goroutine.
//   - Callbacks always run on the goroutine executing Run.
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once

	onPanic func(recovered any)
}

// NewLoop creates a loop with a buffered task queue of the given size.
// The loop does nothing until Run is called.
func NewLoop(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Loop{
		tasks: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
}

// SetPanicHandler installs a hook invoked when a task panics.
// The loop keeps running after a recovered panic.
func (l *Loop) SetPanicHandler(fn func(recovered any)) {
	l.onPanic = fn
}

// Run executes queued tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer l.closeOnce.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil && l.onPanic != nil {
			l.onPanic(r)
		}
	}()
	fn()
}

// Do posts fn to the loop. It reports false if the loop has already exited.
func (l *Loop) Do(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case <-l.done:
		return false
	case l.tasks <- fn:
		return true
	}
}

// Call runs fn on the loop and waits for its result.
//
// Returns:
//   - error: fn's error, ErrLoopStopped, or the context error if ctx ends first
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if !l.Do(func() { result <- fn() }) {
		return ErrLoopStopped
	}

	select {
	case err := <-result:
		return err
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return fmt.Errorf("waiting for loop: %w", ctx.Err())
	}
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return l.schedule(d, 0, fn)
}

// Every implements Scheduler.
func (l *Loop) Every(interval time.Duration, fn func()) Timer {
	if interval <= 0 {
		panic("clock: non-positive interval")
	}
	return l.schedule(interval, interval, fn)
}

// Now implements Scheduler.
func (l *Loop) Now() time.Time {
	return time.Now()
}

func (l *Loop) schedule(delay, interval time.Duration, fn func()) Timer {
	lt := &loopTimer{loop: l, interval: interval, fn: fn}
	lt.mu.Lock()
	lt.timer = time.AfterFunc(delay, lt.post)
	lt.mu.Unlock()
	return lt
}

// loopTimer bridges a runtime timer onto the loop goroutine.
type loopTimer struct {
	loop     *Loop
	interval time.Duration
	fn       func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	fired   bool
}

// post runs on the runtime timer goroutine.
func (t *loopTimer) post() {
	t.loop.Do(t.run)
}

// run executes on the loop goroutine. The stopped flag is re-checked here
// because Stop may have raced with the runtime timer firing.
func (t *loopTimer) run() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if t.interval == 0 {
		t.fired = true
	}
	t.mu.Unlock()

	t.fn()

	if t.interval == 0 {
		return
	}

	t.mu.Lock()
	if !t.stopped {
		t.timer.Reset(t.interval)
	}
	t.mu.Unlock()
}

func (t *loopTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	pending := !t.stopped && !t.fired
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
	return pending
}
