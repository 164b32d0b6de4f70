package particle

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Kind selects which generator builds a particle.
type Kind string

const (
	KindField    Kind = "field"
	KindConfetti Kind = "confetti"
	KindFirework Kind = "firework"
	KindSparkle  Kind = "sparkle"
)

// Shape is the visual variant tag of a particle.
type Shape string

const (
	ShapeGlow   Shape = "glow"
	ShapeCircle Shape = "circle"
	ShapeSquare Shape = "square"
	ShapeHeart  Shape = "heart"
	ShapeStar   Shape = "star"
	ShapeBurst  Shape = "burst"
)

// ConfettiShapes are the shapes a confetti piece is drawn from.
var ConfettiShapes = []Shape{ShapeCircle, ShapeSquare, ShapeHeart}

// Particle describes one ephemeral visual element.
//
// Positions are percentages of the viewport; negative Y is above the top
// edge. Size and spark distances are in presentation pixels.
type Particle struct {
	ID       uint64        `json:"id"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Size     float64       `json:"size"`
	Rotation float64       `json:"rotation,omitempty"`
	Opacity  float64       `json:"opacity"`
	Blur     float64       `json:"blur,omitempty"`
	Delay    time.Duration `json:"delay"`
	Duration time.Duration `json:"duration,omitempty"`
	Color    HSL           `json:"color"`
	Shape    Shape         `json:"shape"`

	// Sparks is only set for fireworks. Read-only.
	Sparks []Spark `json:"sparks,omitempty"`
}

// Spark is one ray of a firework burst.
type Spark struct {
	Angle    float64 `json:"angle"`
	Distance float64 `json:"distance"`
	Size     float64 `json:"size"`
}

// Offset returns the spark's end point relative to the burst centre.
func (s Spark) Offset() (dx, dy float64) {
	return polar(s.Angle, s.Distance)
}

// Range is a half-open interval [Min, Max) sampled uniformly.
// A Range with Min == Max always yields Min.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Fixed returns a Range that always samples v.
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

// Sample draws a value from r.
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies within r (inclusive of Max).
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%g,%g)", r.Min, r.Max)
}

// seconds samples r as a number of seconds.
func (r Range) seconds(rng *rand.Rand) time.Duration {
	return time.Duration(r.Sample(rng) * float64(time.Second))
}

// SparkSpec describes the ring of sparks attached to a firework.
type SparkSpec struct {
	Count    int
	Distance Range
	Size     Range
}

// Spec is the immutable input to a generator.
//
// Delay and Duration are expressed in seconds. Shapes is only consulted by
// the confetti generator; Sparks only by the firework generator.
type Spec struct {
	Kind     Kind
	Palette  Palette
	X        Range
	Y        Range
	Size     Range
	Opacity  Range
	Blur     Range
	Rotation Range
	Delay    Range
	Duration Range
	Shapes   []Shape
	Sparks   SparkSpec
}

// Validate checks that the spec can produce particles.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindField, KindConfetti, KindSparkle:
	case KindFirework:
		if s.Sparks.Count <= 0 {
			return fmt.Errorf("%w: firework needs at least one spark", ErrInvalidSpec)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, s.Kind)
	}
	if len(s.Palette) == 0 {
		return fmt.Errorf("%w: empty palette", ErrInvalidSpec)
	}
	if s.Kind == KindConfetti && len(s.Shapes) == 0 {
		return fmt.Errorf("%w: confetti needs shapes", ErrInvalidSpec)
	}
	return nil
}
