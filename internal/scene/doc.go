// Package scene implements the linear scene timeline of the experience.
//
// A run walks Idle → Awakening → Reveal → Celebration → Closure on a fixed
// schedule. The Sequencer owns the current scene, the background intensity
// derived from it, and the audio fade started with each run. Every pending
// timer is tagged with the generation of the run that scheduled it; a timer
// whose tag no longer matches the live generation does nothing when it
// fires. That is what lets Replay abandon a run cleanly.
//
// Observers receive each committed Transition. The effect reconciler, the
// WebSocket hub, the journal and the lighting publisher are all observers.
//
// Thread Safety:
//   - Sequencer methods are safe for concurrent use.
//   - Observers are invoked without the sequencer lock held, in registration
//     order, from whichever goroutine committed the transition (the clock
//     loop in production).
package scene
