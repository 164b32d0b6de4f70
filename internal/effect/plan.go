package effect

import (
	"slices"

	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

// Plan maps a scene to the effects that should be running in it.
// A Plan must be pure: the same scene always yields the same keys.
type Plan func(s scene.Scene) map[Name]particle.Config

// PlanOptions tunes the default plan.
type PlanOptions struct {
	// ConfettiSpread selects the confetti launch band.
	ConfettiSpread Spread

	// FireworksScenes lists the scenes during which fireworks run.
	// Empty means fireworks never run.
	FireworksScenes []scene.Scene
}

// DefaultPlan returns the stock scene→effects mapping:
//   - ambient field in every scene except Idle, dense and colourful during
//     Celebration
//   - confetti during Celebration
//   - sparkles during Celebration and Closure
//   - fireworks only in the configured scenes
func DefaultPlan(opts PlanOptions) Plan {
	spread := opts.ConfettiSpread
	if !spread.Valid() {
		spread = SpreadWide
	}
	fireworks := slices.Clone(opts.FireworksScenes)

	return func(s scene.Scene) map[Name]particle.Config {
		desired := make(map[Name]particle.Config)

		if s != scene.Idle {
			if s == scene.Celebration {
				desired[Ambient] = AmbientField(High, VariantCelebration)
			} else {
				desired[Ambient] = AmbientField(Medium, VariantAmbient)
			}
		}
		if s == scene.Celebration {
			desired[Confetti] = ConfettiConfig(spread)
		}
		if s == scene.Celebration || s == scene.Closure {
			desired[Sparkles] = SparklesConfig()
		}
		if slices.Contains(fireworks, s) {
			desired[Fireworks] = FireworksConfig()
		}
		return desired
	}
}
