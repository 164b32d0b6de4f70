// Package effect turns scenes into running particle effects.
//
// The catalog builds the particle.Config of each named effect (ambient
// field, confetti, sparkles, fireworks). A Plan maps a scene to the set of
// effects that should be running in it, and the Reconciler diffs that set
// against the live pools on every scene change: missing effects are
// activated, effects whose configuration key changed are re-activated, and
// effects no longer wanted are torn down.
package effect
