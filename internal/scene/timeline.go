package scene

import (
	"fmt"
	"time"
)

// Durations holds how long each timed scene lasts before the next begins.
// Closure has no duration; it is terminal.
type Durations struct {
	Awakening   time.Duration `yaml:"awakening"`
	Reveal      time.Duration `yaml:"reveal"`
	Celebration time.Duration `yaml:"celebration"`

	// Settle is the pause between a replay reset and the fresh start.
	Settle time.Duration `yaml:"settle"`
}

// DefaultDurations returns the stock 3s / 6s / 5s timeline with a 500ms
// replay settle delay.
func DefaultDurations() Durations {
	return Durations{
		Awakening:   3 * time.Second,
		Reveal:      6 * time.Second,
		Celebration: 5 * time.Second,
		Settle:      500 * time.Millisecond,
	}
}

// Validate rejects durations that would break the timeline's ordering.
func (d Durations) Validate() error {
	if d.Awakening <= 0 || d.Reveal <= 0 || d.Celebration <= 0 {
		return fmt.Errorf("%w: scene durations must be positive (awakening=%v reveal=%v celebration=%v)",
			ErrInvalidTimeline, d.Awakening, d.Reveal, d.Celebration)
	}
	if d.Settle < 0 {
		return fmt.Errorf("%w: negative settle delay %v", ErrInvalidTimeline, d.Settle)
	}
	return nil
}

// Total is the offset at which Closure begins.
func (d Durations) Total() time.Duration {
	return d.Awakening + d.Reveal + d.Celebration
}

// Step is one timeline entry: enter Scene at Offset from the run start.
type Step struct {
	Scene  Scene
	Offset time.Duration
}

// Timeline returns the scheduled scene entries of a run, in order.
func Timeline(d Durations) []Step {
	return []Step{
		{Scene: Awakening, Offset: 0},
		{Scene: Reveal, Offset: d.Awakening},
		{Scene: Celebration, Offset: d.Awakening + d.Reveal},
		{Scene: Closure, Offset: d.Total()},
	}
}
