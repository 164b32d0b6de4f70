package clock

import (
	"context"
	"time"
)

// Scheduler runs callbacks after a delay or on a fixed interval.
//
// Implementations must never run two callbacks concurrently.
type Scheduler interface {
	// AfterFunc runs fn once after d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer

	// Every runs fn each time interval elapses until the returned Timer is stopped.
	// The first run happens one interval after registration.
	Every(interval time.Duration, fn func()) Timer

	// Now returns the scheduler's notion of the current time.
	Now() time.Time
}

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the timer was still
	// pending (false if it already fired as a one-shot or was stopped before).
	Stop() bool
}

// StopAll stops every non-nil timer in ts.
func StopAll(ts []Timer) {
	for _, t := range ts {
		if t != nil {
			t.Stop()
		}
	}
}

// Executor runs an action on the goroutine that owns the scheduler's
// callbacks and waits for its result.
type Executor interface {
	Call(ctx context.Context, fn func() error) error
}

// Inline is an Executor that runs actions on the calling goroutine. Pair it
// with Manual in tests.
type Inline struct{}

// Call implements Executor.
func (Inline) Call(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}
