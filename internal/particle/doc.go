// Package particle implements the procedural particle engine: a family of
// generators that produce immutable particle descriptors, and the Pool that
// owns, replenishes and tears down one effect's live particles.
//
// # Generators
//
// Generate is pure with respect to its arguments. The only hidden input is
// the *rand.Rand passed in, so a seeded source makes every batch fully
// reproducible in tests:
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	batch := particle.Generate(rng, spec, 80, 1)
//
// Four shapes of generator exist, selected by Spec.Kind:
//
//   - KindField: glowing dots spread over the whole viewport
//   - KindConfetti: pieces launched from an upper band above the viewport
//   - KindFirework: a burst with an evenly spaced ring of sparks
//   - KindSparkle: star glints with a random start delay
//
// Particles never change after creation. Their whole motion (delay,
// duration, rotation) is declared up front and played back by whatever
// presentation layer renders them.
//
// # Pools
//
// A Pool is either one-shot (a fixed population generated on Activate) or
// replenishing (a sliding window refreshed on an interval). Pool size is
// bounded by Config.Bound for the whole activation, and Deactivate always
// leaves the pool empty with no timer left running.
//
// Thread Safety: Pool methods are safe for concurrent use. Generate is safe
// as long as the *rand.Rand is not shared between goroutines.
package particle
