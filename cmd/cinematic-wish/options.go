package main

import (
	"fmt"
	"strings"

	"github.com/amrit740/riti-s-cinematic-wish/internal/audio"
	"github.com/amrit740/riti-s-cinematic-wish/internal/effect"
	"github.com/amrit740/riti-s-cinematic-wish/internal/experience"
	"github.com/amrit740/riti-s-cinematic-wish/internal/infrastructure/config"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

// experienceOptions maps the validated configuration onto experience
// options. Observers are left for the caller.
func experienceOptions(cfg *config.Config) (experience.Options, error) {
	opts := experience.DefaultOptions()

	opts.Scene.Durations = scene.Durations{
		Awakening:   cfg.Timeline.Awakening,
		Reveal:      cfg.Timeline.Reveal,
		Celebration: cfg.Timeline.Celebration,
		Settle:      cfg.Timeline.Settle,
	}
	opts.Scene.Fade = audio.FadeConfig{
		Step:     cfg.Audio.FadeStep,
		Interval: cfg.Audio.FadeInterval,
		Ceiling:  cfg.Audio.FadeCeiling,
	}
	opts.Scene.ReplayPolicy = scene.ReplayPolicy(cfg.Replay.Policy)

	p := cfg.Presentation
	opts.Scene.Greeting = scene.Greeting{
		Recipient:    p.Recipient,
		Prompt:       p.Prompt,
		Awakening:    p.Awakening,
		OpeningLine:  p.OpeningLine,
		SecondLine:   p.SecondLine,
		Headline:     p.Headline,
		Wish:         p.Wish,
		ClosingQuote: p.ClosingQuote,
		Signature:    p.Signature,
	}

	opts.Plan.ConfettiSpread = effect.Spread(cfg.Effects.ConfettiSpread)
	for _, name := range cfg.Effects.FireworksScenes {
		s, err := scene.ParseScene(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return experience.Options{}, fmt.Errorf("effects.fireworks_scenes: %w", err)
		}
		opts.Plan.FireworksScenes = append(opts.Plan.FireworksScenes, s)
	}

	if cfg.Effects.Seed != 0 {
		opts.Rand = effect.SeededRand(cfg.Effects.Seed)
	}
	return opts, nil
}
