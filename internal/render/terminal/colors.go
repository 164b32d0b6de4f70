package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
)

var (
	night     = colorful.Hsl(250, 0.35, 0.06)
	glowColor = colorful.Hsl(38, 0.9, 0.6)
	textColor = colorful.Hsl(45, 0.8, 0.85)
	goldColor = colorful.Hsl(38, 0.95, 0.65)
)

// toTcell converts a colorful colour to a terminal RGB colour.
func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// hslColor converts a particle colour (saturation and lightness in
// percent) to a terminal colour.
func hslColor(c particle.HSL) tcell.Color {
	return toTcell(colorful.Hsl(c.H, c.S/100, c.L/100))
}

// glowAt returns the background colour of cell (x, y) on a w×h screen.
// The glow is brightest in the centre and fades out radially; intensity
// scales the whole glow.
func glowAt(x, y, w, h int, intensity float64) colorful.Color {
	if w <= 0 || h <= 0 || intensity <= 0 {
		return night
	}
	dx := (float64(x) + 0.5 - float64(w)/2) / (float64(w) / 2)
	dy := (float64(y) + 0.5 - float64(h)/2) / (float64(h) / 2)
	falloff := math.Max(0, 1-math.Hypot(dx, dy))
	return night.BlendLab(glowColor, 0.6*intensity*falloff*falloff)
}
