package effect

import (
	"fmt"
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
)

// AmbientField returns the drifting background field. It is generated once
// per activation; a different intensity or variant yields a different key
// and therefore a fresh field.
func AmbientField(intensity Intensity, variant Variant) particle.Config {
	spec := particle.Spec{
		Kind:     particle.KindField,
		Palette:  particle.AmbientPalette,
		X:        particle.Range{Min: 0, Max: 100},
		Y:        particle.Range{Min: 0, Max: 100},
		Size:     particle.Range{Min: 1, Max: 5},
		Opacity:  particle.Range{Min: 0.2, Max: 0.7},
		Blur:     particle.Range{Min: 0, Max: 2},
		Delay:    particle.Range{Min: 0, Max: 5},
		Duration: particle.Range{Min: 8, Max: 18},
	}
	if variant == VariantCelebration {
		spec.Palette = particle.CelebrationPalette
		spec.Size = particle.Range{Min: 2, Max: 8}
	}

	return particle.Config{
		Key:   fmt.Sprintf("%s/%s/%s", Ambient, intensity, variant),
		Spec:  spec,
		Count: intensity.Count(),
	}
}

// ConfettiConfig returns the confetti burst: 80 pieces, topped up with 30
// every two seconds while the newest 60 are kept.
func ConfettiConfig(spread Spread) particle.Config {
	return particle.Config{
		Key: fmt.Sprintf("%s/%s", Confetti, spread),
		Spec: particle.Spec{
			Kind:     particle.KindConfetti,
			Palette:  particle.ConfettiPalette,
			X:        spread.band(),
			Y:        particle.Range{Min: -15, Max: -5},
			Size:     particle.Range{Min: 5, Max: 17},
			Rotation: particle.Range{Min: 0, Max: 360},
			Delay:    particle.Range{Min: 0, Max: 0.8},
			Duration: particle.Range{Min: 4, Max: 7},
			Shapes:   particle.ConfettiShapes,
		},
		Count: 80,
		Refresh: &particle.Refresh{
			Interval: 2 * time.Second,
			Window:   60,
			Batch:    30,
		},
	}
}

// SparklesConfig returns 25 twinkles generated once.
func SparklesConfig() particle.Config {
	return particle.Config{
		Key: string(Sparkles),
		Spec: particle.Spec{
			Kind:    particle.KindSparkle,
			Palette: particle.SparklePalette,
			X:       particle.Range{Min: 0, Max: 100},
			Y:       particle.Range{Min: 0, Max: 100},
			Size:    particle.Range{Min: 10, Max: 30},
			Delay:   particle.Range{Min: 0, Max: 3},
		},
		Count: 25,
	}
}

// FireworksConfig returns an initial salvo of 8 bursts followed by a single
// immediate burst every 600ms, keeping the newest 15.
func FireworksConfig() particle.Config {
	spec := particle.Spec{
		Kind:    particle.KindFirework,
		Palette: particle.FireworkPalette,
		X:       particle.Range{Min: 10, Max: 90},
		Y:       particle.Range{Min: 15, Max: 55},
		Size:    particle.Range{Min: 8, Max: 16},
		Delay:   particle.Range{Min: 0, Max: 0.8},
		Sparks: particle.SparkSpec{
			Count:    12,
			Distance: particle.Range{Min: 40, Max: 70},
			Size:     particle.Range{Min: 3, Max: 6},
		},
	}

	refill := spec
	refill.Y = particle.Range{Min: 10, Max: 60}
	refill.Delay = particle.Fixed(0)

	return particle.Config{
		Key:   string(Fireworks),
		Spec:  spec,
		Count: 8,
		Refresh: &particle.Refresh{
			Interval: 600 * time.Millisecond,
			Window:   15,
			Batch:    1,
			Spec:     &refill,
		},
	}
}

// Lookup returns the stock configuration of name, using the default
// intensity/variant and the given confetti spread.
func Lookup(name Name, spread Spread) (particle.Config, error) {
	switch name {
	case Ambient:
		return AmbientField(Medium, VariantAmbient), nil
	case Confetti:
		return ConfettiConfig(spread), nil
	case Sparkles:
		return SparklesConfig(), nil
	case Fireworks:
		return FireworksConfig(), nil
	default:
		return particle.Config{}, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
}
