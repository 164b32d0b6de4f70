package audio

import (
	"sync"
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/clock"
)

// volumeEpsilon absorbs float drift when comparing against the ceiling.
const volumeEpsilon = 1e-9

// FadeConfig describes a linear fade-in.
type FadeConfig struct {
	Step     float64       `yaml:"step"`
	Interval time.Duration `yaml:"interval"`
	Ceiling  float64       `yaml:"ceiling"`
}

// DefaultFadeConfig raises the volume by 0.02 every 100ms up to 0.5.
func DefaultFadeConfig() FadeConfig {
	return FadeConfig{
		Step:     0.02,
		Interval: 100 * time.Millisecond,
		Ceiling:  0.5,
	}
}

// Fade is one running fade-in. Volume rises monotonically from 0 and the
// fade terminates for good once the ceiling is reached or Stop is called.
type Fade struct {
	player Player
	cfg    FadeConfig

	mu     sync.Mutex
	timer  clock.Timer
	steps  int
	volume float64
	done   bool
}

// StartFade sets the player's volume to 0 and begins stepping it up.
func StartFade(sched clock.Scheduler, player Player, cfg FadeConfig) *Fade {
	f := &Fade{player: player, cfg: cfg}
	player.SetVolume(0)

	if cfg.Step <= 0 || cfg.Ceiling <= 0 || cfg.Interval <= 0 {
		f.done = true
		return f
	}

	f.mu.Lock()
	f.timer = sched.Every(cfg.Interval, f.step)
	f.mu.Unlock()
	return f
}

// step volume is computed from the step count, not accumulated, so the
// ceiling is hit exactly.
func (f *Fade) step() {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}

	f.steps++
	v := float64(f.steps) * f.cfg.Step
	if v >= f.cfg.Ceiling-volumeEpsilon {
		v = f.cfg.Ceiling
		f.finishLocked()
	}
	f.volume = v
	f.mu.Unlock()

	f.player.SetVolume(v)
}

func (f *Fade) finishLocked() {
	f.done = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// Stop ends the fade, leaving the volume where it is.
func (f *Fade) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishLocked()
}

// Volume returns the last volume applied by the fade.
func (f *Fade) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

// Done reports whether the fade has terminated.
func (f *Fade) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}
