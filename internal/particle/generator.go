package particle

import (
	"math"
	"math/rand/v2"
)

// fullTurn is the number of degrees in a circle.
const fullTurn = 360.0

// Generate builds count particles from spec with IDs firstID, firstID+1, ...
//
// The result depends only on the arguments: the same seeded rng, spec,
// count and firstID always produce the same batch. A non-positive count
// yields an empty, non-nil slice.
func Generate(rng *rand.Rand, spec Spec, count int, firstID uint64) []Particle {
	if count < 0 {
		count = 0
	}
	batch := make([]Particle, count)
	for i := range batch {
		batch[i] = newParticle(rng, spec, firstID+uint64(i))
	}
	return batch
}

// newParticle dispatches to the generator for spec.Kind.
func newParticle(rng *rand.Rand, spec Spec, id uint64) Particle {
	switch spec.Kind {
	case KindConfetti:
		return confettiPiece(rng, spec, id)
	case KindFirework:
		return fireworkBurst(rng, spec, id)
	case KindSparkle:
		return sparkle(rng, spec, id)
	default:
		return fieldParticle(rng, spec, id)
	}
}

// fieldParticle is a soft glowing dot that floats in place.
func fieldParticle(rng *rand.Rand, spec Spec, id uint64) Particle {
	return Particle{
		ID:       id,
		X:        spec.X.Sample(rng),
		Y:        spec.Y.Sample(rng),
		Size:     spec.Size.Sample(rng),
		Opacity:  spec.Opacity.Sample(rng),
		Color:    spec.Palette.Pick(rng),
		Delay:    spec.Delay.seconds(rng),
		Duration: spec.Duration.seconds(rng),
		Blur:     spec.Blur.Sample(rng),
		Shape:    ShapeGlow,
	}
}

// confettiPiece starts in a band above the viewport and falls.
func confettiPiece(rng *rand.Rand, spec Spec, id uint64) Particle {
	return Particle{
		ID:       id,
		X:        spec.X.Sample(rng),
		Y:        spec.Y.Sample(rng),
		Rotation: spec.Rotation.Sample(rng),
		Color:    spec.Palette.Pick(rng),
		Size:     spec.Size.Sample(rng),
		Delay:    spec.Delay.seconds(rng),
		Duration: spec.Duration.seconds(rng),
		Shape:    spec.Shapes[rng.IntN(len(spec.Shapes))],
		Opacity:  1,
	}
}

// fireworkBurst places a burst and its ring of sparks. Spark angles are
// evenly spaced so every burst is balanced; only distance and size vary.
func fireworkBurst(rng *rand.Rand, spec Spec, id uint64) Particle {
	p := Particle{
		ID:      id,
		X:       spec.X.Sample(rng),
		Y:       spec.Y.Sample(rng),
		Color:   spec.Palette.Pick(rng),
		Size:    spec.Size.Sample(rng),
		Delay:   spec.Delay.seconds(rng),
		Shape:   ShapeBurst,
		Opacity: 1,
	}

	n := spec.Sparks.Count
	step := fullTurn / float64(n)
	p.Sparks = make([]Spark, n)
	for i := range p.Sparks {
		p.Sparks[i] = Spark{
			Angle:    step * float64(i),
			Distance: spec.Sparks.Distance.Sample(rng),
			Size:     spec.Sparks.Size.Sample(rng),
		}
	}
	return p
}

// sparkle is a star glint that pulses after a random delay.
func sparkle(rng *rand.Rand, spec Spec, id uint64) Particle {
	return Particle{
		ID:      id,
		X:       spec.X.Sample(rng),
		Y:       spec.Y.Sample(rng),
		Size:    spec.Size.Sample(rng),
		Delay:   spec.Delay.seconds(rng),
		Color:   spec.Palette.Pick(rng),
		Shape:   ShapeStar,
		Opacity: 0.8,
	}
}

func polar(angleDeg, distance float64) (dx, dy float64) {
	rad := angleDeg * math.Pi / 180
	return math.Cos(rad) * distance, math.Sin(rad) * distance
}
