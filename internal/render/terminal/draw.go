package terminal

import (
	"math"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/amrit740/riti-s-cinematic-wish/internal/effect"
	"github.com/amrit740/riti-s-cinematic-wish/internal/experience"
	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

// Pixels per terminal cell, used to place firework sparks.
const (
	cellWidthPx  = 8
	cellHeightPx = 16
)

// frame is everything needed to paint one screen.
type frame struct {
	snap      experience.Snapshot
	particles map[effect.Name][]particle.Particle

	// elapsed is the time since the current scene was entered.
	elapsed time.Duration
}

var shapeGlyphs = map[particle.Shape]rune{
	particle.ShapeGlow:   '·',
	particle.ShapeCircle: '●',
	particle.ShapeSquare: '■',
	particle.ShapeHeart:  '♥',
	particle.ShapeStar:   '✦',
	particle.ShapeBurst:  '✺',
}

func glyph(s particle.Shape) rune {
	if r, ok := shapeGlyphs[s]; ok {
		return r
	}
	return '•'
}

type canvas struct {
	screen    tcell.Screen
	w, h      int
	intensity float64
}

func (c canvas) background(x, y int) tcell.Color {
	return toTcell(glowAt(x, y, c.w, c.h, c.intensity))
}

func (c canvas) set(x, y int, r rune, fg tcell.Color) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	style := tcell.StyleDefault.Background(c.background(x, y)).Foreground(fg)
	c.screen.SetContent(x, y, r, nil, style)
}

func (c canvas) text(y int, s string, fg tcell.Color, bold bool) {
	runes := []rune(s)
	x := (c.w - len(runes)) / 2
	for i, r := range runes {
		px := x + i
		if px < 0 || px >= c.w || y < 0 || y >= c.h {
			continue
		}
		style := tcell.StyleDefault.Background(c.background(px, y)).Foreground(fg).Bold(bold)
		c.screen.SetContent(px, y, r, nil, style)
	}
}

// draw paints f onto screen. It does not call Show.
func draw(screen tcell.Screen, f frame) {
	w, h := screen.Size()
	c := canvas{screen: screen, w: w, h: h, intensity: f.snap.BackgroundIntensity}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(c.background(x, y)))
		}
	}

	for _, name := range effect.Names() {
		for _, p := range f.particles[name] {
			drawParticle(c, p, f.elapsed)
		}
	}

	lines := textLines(f.snap.Scene, f.snap.Cues, f.elapsed)
	top := (h - len(lines)) / 2
	for i, l := range lines {
		fg := toTcell(textColor)
		if l.emphasis {
			fg = toTcell(goldColor)
		}
		c.text(top+i, l.text, fg, l.emphasis)
	}
}

// drawParticle places p. Confetti falls through the screen in a loop;
// everything else is drawn where it was generated. Ambient glow ignores
// its delay, which only staggers its float animation.
func drawParticle(c canvas, p particle.Particle, elapsed time.Duration) {
	if p.Shape != particle.ShapeGlow && elapsed < p.Delay {
		return
	}

	x, y := p.X, p.Y
	if p.Duration > 0 && slices.Contains(particle.ConfettiShapes, p.Shape) {
		progress := float64((elapsed-p.Delay)%p.Duration) / float64(p.Duration)
		y += progress * 110
	}
	if y < 0 || y > 100 {
		return
	}

	col := int(math.Round(x / 100 * float64(c.w-1)))
	row := int(math.Round(y / 100 * float64(c.h-1)))
	fg := hslColor(p.Color)

	c.set(col, row, glyph(p.Shape), fg)
	for _, s := range p.Sparks {
		dx, dy := s.Offset()
		c.set(col+int(math.Round(dx/cellWidthPx)), row+int(math.Round(dy/cellHeightPx)), '*', fg)
	}
}

type textLine struct {
	text     string
	emphasis bool
}

var cake = []string{
	"  i i i  ",
	" |~~~~~| ",
	" |_____| ",
}

// textLines lays out the cues of a scene at elapsed time since entry.
// Scenes after Reveal show the reveal lines immediately.
func textLines(s scene.Scene, cues scene.Cues, elapsed time.Duration) []textLine {
	var out []textLine
	add := func(text string, emphasis bool) {
		out = append(out, textLine{text: text, emphasis: emphasis})
	}

	switch s {
	case scene.Idle:
		add(cues.Prompt, false)
		add("", false)
		add("[ Press Enter to begin ]", true)
		return out
	case scene.Awakening:
		add(cues.Awakening, false)
		return out
	}

	for _, l := range cues.RevealLines {
		if s > scene.Reveal || elapsed >= l.Delay {
			add(l.Text, l.Emphasis)
		}
	}

	if cues.Cake && (s > scene.Celebration || elapsed >= cues.CakeDelay) {
		add("", false)
		for _, row := range cake {
			add(row, true)
		}
	}
	if m := cues.Birthday; m != nil && (s > scene.Celebration || elapsed >= m.Delay) {
		add("", false)
		add(m.Title, true)
		add(m.Body, false)
	}
	if cues.Photo && elapsed >= cues.PhotoDelay {
		add("", false)
		add("[ ♥ ]", true)
	}
	if m := cues.Closing; m != nil && elapsed >= m.Delay {
		add("", false)
		add(m.Title, false)
		add("- "+m.Body, true)
	}
	if cues.Actions {
		add("", false)
		add("Enter: replay   q: quit", false)
	}
	return out
}
