package scene

import (
	"fmt"
	"sync"
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/audio"
	"github.com/amrit740/riti-s-cinematic-wish/internal/clock"
)

// Logger defines the logging interface used by the sequencer.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ReplayPolicy decides when Replay is accepted.
type ReplayPolicy string

const (
	// ReplayFromClosure only accepts Replay once the run reached Closure.
	ReplayFromClosure ReplayPolicy = "closure-only"

	// ReplayAnytime accepts Replay from any scene.
	ReplayAnytime ReplayPolicy = "anytime"
)

// Valid reports whether p is a known policy.
func (p ReplayPolicy) Valid() bool {
	return p == ReplayFromClosure || p == ReplayAnytime
}

// Cause records what triggered a transition.
type Cause string

const (
	CauseStart    Cause = "start"
	CauseTimeline Cause = "timeline"
	CauseReplay   Cause = "replay"
)

// Transition is a committed scene change.
type Transition struct {
	From       Scene     `json:"from"`
	To         Scene     `json:"to"`
	Generation uint64    `json:"generation"`
	At         time.Time `json:"at"`
	Cause      Cause     `json:"cause"`
}

// Observer is notified after each committed transition.
type Observer interface {
	SceneChanged(t Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(t Transition)

// SceneChanged implements Observer.
func (f ObserverFunc) SceneChanged(t Transition) { f(t) }

// Options configures a Sequencer.
type Options struct {
	Durations    Durations
	Fade         audio.FadeConfig
	ReplayPolicy ReplayPolicy
	Greeting     Greeting
}

// DefaultOptions returns the stock timeline, fade and replay policy.
func DefaultOptions() Options {
	return Options{
		Durations:    DefaultDurations(),
		Fade:         audio.DefaultFadeConfig(),
		ReplayPolicy: ReplayFromClosure,
		Greeting:     DefaultGreeting(),
	}
}

// State is a point-in-time view of the sequencer.
type State struct {
	Scene               Scene   `json:"scene"`
	Generation          uint64  `json:"generation"`
	BackgroundIntensity float64 `json:"background_intensity"`
	Volume              float64 `json:"volume"`
	ReplayAllowed       bool    `json:"replay_allowed"`
	Cues                Cues    `json:"cues"`
}

// Sequencer drives the scene timeline.
//
// Each Start or accepted Replay bumps the generation. Scheduled callbacks
// carry the generation that created them and return early when it is no
// longer current, so scenes advance strictly forward within one run.
type Sequencer struct {
	sched  clock.Scheduler
	player audio.Player
	opts   Options
	logger Logger

	mu         sync.Mutex
	scene      Scene
	generation uint64
	timers     []clock.Timer
	fade       *audio.Fade
	observers  []Observer
}

// NewSequencer creates a sequencer in the Idle scene.
//
// Parameters:
//   - sched: scheduler for scene and fade timers
//   - player: audio device; nil installs a silent player
//   - opts: timeline, fade and replay configuration
//   - logger: Logger instance (nil for no logging)
//
// Returns:
//   - *Sequencer: ready-to-use sequencer
//   - error: if opts are inconsistent
func NewSequencer(sched clock.Scheduler, player audio.Player, opts Options, logger Logger) (*Sequencer, error) {
	if err := opts.Durations.Validate(); err != nil {
		return nil, err
	}
	if opts.ReplayPolicy == "" {
		opts.ReplayPolicy = ReplayFromClosure
	}
	if !opts.ReplayPolicy.Valid() {
		return nil, fmt.Errorf("scene: unknown replay policy %q", opts.ReplayPolicy)
	}
	if player == nil {
		player = &audio.Silent{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Sequencer{
		sched:  sched,
		player: player,
		opts:   opts,
		logger: logger,
		scene:  Idle,
	}, nil
}

// Subscribe registers an observer. Observers cannot be removed.
func (s *Sequencer) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Start begins a fresh run: the scene jumps to Awakening, audio starts
// fading in and the remaining scenes are scheduled. Any run in progress is
// abandoned.
func (s *Sequencer) Start() {
	s.mu.Lock()
	t := s.beginLocked()
	gen := t.Generation
	observers := s.observersLocked()
	s.mu.Unlock()

	s.startAudio(gen)
	s.notify(observers, t)
}

// beginLocked opens a new generation and schedules its timeline.
func (s *Sequencer) beginLocked() Transition {
	s.cancelLocked()
	s.generation++
	gen := s.generation

	from := s.scene
	s.scene = Awakening

	for _, step := range Timeline(s.opts.Durations)[1:] {
		target := step.Scene
		s.timers = append(s.timers, s.sched.AfterFunc(step.Offset, func() {
			s.advance(gen, target)
		}))
	}

	s.logger.Info("experience started", "generation", gen)
	return Transition{From: from, To: Awakening, Generation: gen, At: s.sched.Now(), Cause: CauseStart}
}

// startAudio plays the soundtrack and begins the fade for generation gen.
// Playback failures are swallowed.
func (s *Sequencer) startAudio(gen uint64) {
	s.player.SetVolume(0)
	if err := s.player.Play(); err != nil {
		s.logger.Debug("audio playback refused", "error", err)
	}

	fade := audio.StartFade(s.sched, s.player, s.opts.Fade)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		fade.Stop()
		return
	}
	s.fade = fade
	s.mu.Unlock()
}

// advance moves to target if gen is still the live generation.
func (s *Sequencer) advance(gen uint64, target Scene) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("stale scene timer ignored", "generation", gen, "current", s.Generation(), "target", target)
		return
	}
	if target <= s.scene {
		s.mu.Unlock()
		return
	}

	t := Transition{From: s.scene, To: target, Generation: gen, At: s.sched.Now(), Cause: CauseTimeline}
	s.scene = target
	observers := s.observersLocked()
	s.mu.Unlock()

	s.logger.Debug("scene advanced", "from", t.From, "to", t.To, "generation", gen)
	s.notify(observers, t)
}

// Replay resets the experience to Idle and schedules a fresh Start after the
// settle delay.
//
// Returns:
//   - error: ErrReplayNotReady when the replay policy rejects the current
//     scene; state is unchanged in that case
func (s *Sequencer) Replay() error {
	s.mu.Lock()
	if !s.replayAllowedLocked() {
		current := s.scene
		s.mu.Unlock()
		return fmt.Errorf("%w: current scene is %s", ErrReplayNotReady, current)
	}

	s.cancelLocked()
	s.generation++
	gen := s.generation

	t := Transition{From: s.scene, To: Idle, Generation: gen, At: s.sched.Now(), Cause: CauseReplay}
	s.scene = Idle
	s.timers = append(s.timers, s.sched.AfterFunc(s.opts.Durations.Settle, func() {
		s.restart(gen)
	}))
	observers := s.observersLocked()
	s.mu.Unlock()

	s.logger.Info("experience replay requested", "generation", gen)
	s.notify(observers, t)
	return nil
}

// restart is the deferred Start scheduled by Replay.
func (s *Sequencer) restart(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	t := s.beginLocked()
	observers := s.observersLocked()
	s.mu.Unlock()

	s.startAudio(t.Generation)
	s.notify(observers, t)
}

// Close cancels every pending timer and the audio fade. The current scene
// is kept.
func (s *Sequencer) Close() {
	s.mu.Lock()
	s.cancelLocked()
	s.generation++
	s.mu.Unlock()
}

func (s *Sequencer) cancelLocked() {
	clock.StopAll(s.timers)
	s.timers = nil
	if s.fade != nil {
		s.fade.Stop()
		s.fade = nil
	}
}

func (s *Sequencer) replayAllowedLocked() bool {
	return s.opts.ReplayPolicy == ReplayAnytime || s.scene == Closure
}

func (s *Sequencer) observersLocked() []Observer {
	if len(s.observers) == 0 {
		return nil
	}
	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}

func (s *Sequencer) notify(observers []Observer, t Transition) {
	for _, o := range observers {
		o.SceneChanged(t)
	}
}

// Scene returns the current scene.
func (s *Sequencer) Scene() Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene
}

// Generation returns the live generation.
func (s *Sequencer) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// BackgroundIntensity returns the glow opacity of the current scene.
func (s *Sequencer) BackgroundIntensity() float64 {
	return s.Scene().BackgroundIntensity()
}

// Volume returns the volume last applied by the running fade, or 0 when no
// fade belongs to the current run.
func (s *Sequencer) Volume() float64 {
	s.mu.Lock()
	fade := s.fade
	s.mu.Unlock()
	if fade == nil {
		return 0
	}
	return fade.Volume()
}

// Cues returns the presentation cues of the current scene.
func (s *Sequencer) Cues() Cues {
	return CuesFor(s.Scene(), s.opts.Greeting)
}

// ReplayAllowed reports whether Replay would currently be accepted.
func (s *Sequencer) ReplayAllowed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replayAllowedLocked()
}

// Snapshot returns the full sequencer state.
func (s *Sequencer) Snapshot() State {
	s.mu.Lock()
	sc, gen, allowed, fade := s.scene, s.generation, s.replayAllowedLocked(), s.fade
	s.mu.Unlock()

	var volume float64
	if fade != nil {
		volume = fade.Volume()
	}
	return State{
		Scene:               sc,
		Generation:          gen,
		BackgroundIntensity: sc.BackgroundIntensity(),
		Volume:              volume,
		ReplayAllowed:       allowed,
		Cues:                CuesFor(sc, s.opts.Greeting),
	}
}
