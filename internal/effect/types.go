package effect

import (
	"fmt"

	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
)

// Name identifies an effect instance.
type Name string

const (
	Ambient   Name = "ambient"
	Confetti  Name = "confetti"
	Sparkles  Name = "sparkles"
	Fireworks Name = "fireworks"
)

// Names lists every effect in reconciliation order.
func Names() []Name {
	return []Name{Ambient, Confetti, Sparkles, Fireworks}
}

// ParseName validates an effect name.
func ParseName(s string) (Name, error) {
	for _, n := range Names() {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEffect, s)
}

// Intensity sets the density of the ambient field.
type Intensity string

const (
	Low    Intensity = "low"
	Medium Intensity = "medium"
	High   Intensity = "high"
)

// Count returns the particle count of the intensity.
func (i Intensity) Count() int {
	switch i {
	case Low:
		return 20
	case High:
		return 60
	default:
		return 40
	}
}

// Variant selects the palette and size range of the ambient field.
type Variant string

const (
	VariantAmbient     Variant = "ambient"
	VariantCelebration Variant = "celebration"
)

// Spread is the horizontal band confetti is launched from.
type Spread string

const (
	SpreadWide   Spread = "wide"
	SpreadNarrow Spread = "narrow"
)

// Valid reports whether s is a known spread.
func (s Spread) Valid() bool {
	return s == SpreadWide || s == SpreadNarrow
}

func (s Spread) band() particle.Range {
	if s == SpreadNarrow {
		return particle.Range{Min: 45, Max: 55}
	}
	return particle.Range{Min: 30, Max: 70}
}

// Snapshot is the observable state of one effect.
type Snapshot struct {
	Name      Name                `json:"name"`
	Active    bool                `json:"active"`
	Key       string              `json:"key,omitempty"`
	Bound     int                 `json:"bound"`
	Particles []particle.Particle `json:"particles"`
}
