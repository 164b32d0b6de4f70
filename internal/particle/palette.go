package particle

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
)

// HSL is a colour in hue (degrees), saturation and lightness (percent).
// It marshals to a CSS hsl() string so web presenters can use it verbatim.
type HSL struct {
	H float64
	S float64
	L float64
}

func (c HSL) String() string {
	return fmt.Sprintf("hsl(%g, %g%%, %g%%)", c.H, c.S, c.L)
}

// MarshalJSON implements json.Marshaler.
func (c HSL) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Palette is a set of colours drawn from uniformly.
type Palette []HSL

// Pick returns a uniformly chosen colour.
func (p Palette) Pick(rng *rand.Rand) HSL {
	return p[rng.IntN(len(p))]
}

// Contains reports whether c is one of the palette's colours.
func (p Palette) Contains(c HSL) bool {
	for _, pc := range p {
		if pc == c {
			return true
		}
	}
	return false
}

// Named palettes.
var (
	// AmbientPalette is the warm, soft field used before the celebration.
	AmbientPalette = Palette{
		{38, 90, 70},  // gold
		{350, 70, 75}, // rose
		{45, 80, 80},  // warm cream
		{32, 85, 65},  // amber
		{220, 60, 70}, // soft blue
	}

	// CelebrationPalette is the brighter field used during the celebration.
	CelebrationPalette = Palette{
		{38, 95, 65},  // bright gold
		{350, 80, 70}, // rose
		{280, 60, 70}, // lavender
		{180, 50, 65}, // teal
		{45, 90, 75},  // yellow
	}

	ConfettiPalette = Palette{
		{38, 95, 60},  // gold
		{350, 80, 65}, // rose
		{45, 90, 70},  // yellow
		{280, 60, 65}, // purple
		{180, 50, 60}, // teal
		{15, 85, 60},  // orange
	}

	FireworkPalette = Palette{
		{38, 95, 60},
		{350, 80, 65},
		{45, 90, 70},
		{280, 60, 65},
		{180, 50, 60},
		{15, 85, 60},
		{200, 80, 60}, // blue
	}

	// SparklePalette is the single primary gold used for star glints.
	SparklePalette = Palette{{38, 90, 60}}
)
