// Package clock provides the timer seam used by the scene sequencer, the
// particle pools and the audio fade.
//
// Every delayed or periodic process in Cinematic Wish is scheduled through a
// Scheduler rather than through time.AfterFunc directly. Two implementations
// exist:
//
//   - Loop: the production scheduler. All callbacks, and any action posted
//     with Do, run on a single goroutine, so handlers never preempt each
//     other and shared state needs no extra ordering logic.
//   - Manual: a virtual clock for tests. Time only moves when Advance is
//     called; due callbacks fire in (deadline, registration) order.
//
// # Cancellation
//
// Timer.Stop guarantees that the callback will not run after Stop returns.
// A callback that is already executing is allowed to finish.
//
// # Usage
//
//	loop := clock.NewLoop(clock.DefaultQueueSize)
//	go loop.Run(ctx)
//
//	t := loop.AfterFunc(3*time.Second, func() { seq.advance() })
//	defer t.Stop()
package clock
