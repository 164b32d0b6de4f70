// Package experience assembles the running celebration: one scene
// sequencer, the effect reconciler subscribed to it, and whatever other
// observers the process wires in (journal, WebSocket hub, lighting,
// telemetry).
//
// All state changes happen on the scheduler's goroutine. Callers on other
// goroutines (HTTP handlers, the terminal renderer) go through the
// Experience methods, which post their work through a clock.Executor and
// wait for the result.
package experience
