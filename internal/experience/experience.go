package experience

import (
	"context"
	"sync"

	"github.com/amrit740/riti-s-cinematic-wish/internal/audio"
	"github.com/amrit740/riti-s-cinematic-wish/internal/clock"
	"github.com/amrit740/riti-s-cinematic-wish/internal/effect"
	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

// Logger defines the logging interface used across the experience.
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

// EffectObserver receives effect population changes.
type EffectObserver interface {
	EffectChanged(name effect.Name, particles []particle.Particle)
}

// EffectObserverFunc adapts a function to EffectObserver.
type EffectObserverFunc func(name effect.Name, particles []particle.Particle)

// EffectChanged implements EffectObserver.
func (f EffectObserverFunc) EffectChanged(name effect.Name, ps []particle.Particle) { f(name, ps) }

// Options configures an Experience.
type Options struct {
	Scene scene.Options
	Plan  effect.PlanOptions

	// Rand supplies per-effect random sources. Nil uses fresh entropy.
	Rand effect.RandFactory

	// Observers see each transition before effects are reconciled for it.
	// Observers added later with Subscribe see it after.
	Observers []scene.Observer
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Scene: scene.DefaultOptions(),
		Plan:  effect.PlanOptions{ConfettiSpread: effect.SpreadWide},
	}
}

// EffectSummary describes one effect without its particles.
type EffectSummary struct {
	Name       effect.Name `json:"name"`
	Active     bool        `json:"active"`
	Key        string      `json:"key,omitempty"`
	Population int         `json:"population"`
	Bound      int         `json:"bound"`
}

// Snapshot is a consistent view of the whole experience.
type Snapshot struct {
	scene.State
	Effects []EffectSummary `json:"effects"`
}

// Experience is the composition root of one celebration session.
type Experience struct {
	exec    clock.Executor
	seq     *scene.Sequencer
	effects *effect.Reconciler
	logger  Logger

	mu              sync.Mutex
	effectObservers []EffectObserver
}

// New builds an experience in the Idle scene.
//
// Parameters:
//   - sched: scheduler shared by the sequencer, fade and pools
//   - exec: executor that runs actions on sched's goroutine
//   - player: audio device (nil for silence)
//   - opts: scene, plan and randomness configuration
//   - logger: Logger instance (nil for no logging)
//
// Returns:
//   - *Experience: ready to Start
//   - error: if the scene options are invalid
func New(sched clock.Scheduler, exec clock.Executor, player audio.Player, opts Options, logger Logger) (*Experience, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	seq, err := scene.NewSequencer(sched, player, opts.Scene, logger)
	if err != nil {
		return nil, err
	}

	e := &Experience{
		exec:    exec,
		seq:     seq,
		effects: effect.NewReconciler(sched, opts.Rand, effect.DefaultPlan(opts.Plan), logger),
		logger:  logger,
	}
	e.effects.SetOnChange(e.effectChanged)

	for _, o := range opts.Observers {
		seq.Subscribe(o)
	}
	seq.Subscribe(e.effects)
	return e, nil
}

// Subscribe registers a scene observer, notified after effects have been
// reconciled for each transition.
func (e *Experience) Subscribe(o scene.Observer) {
	e.seq.Subscribe(o)
}

// SubscribeEffects registers an effect observer.
func (e *Experience) SubscribeEffects(o EffectObserver) {
	e.mu.Lock()
	e.effectObservers = append(e.effectObservers, o)
	e.mu.Unlock()
}

func (e *Experience) effectChanged(name effect.Name, ps []particle.Particle) {
	e.mu.Lock()
	observers := make([]EffectObserver, len(e.effectObservers))
	copy(observers, e.effectObservers)
	e.mu.Unlock()

	for _, o := range observers {
		o.EffectChanged(name, ps)
	}
}

// Start begins a fresh run.
func (e *Experience) Start(ctx context.Context) error {
	return e.exec.Call(ctx, func() error {
		e.seq.Start()
		return nil
	})
}

// Replay resets to Idle and restarts after the settle delay.
//
// Returns:
//   - error: scene.ErrReplayNotReady when the replay policy rejects it
func (e *Experience) Replay(ctx context.Context) error {
	return e.exec.Call(ctx, e.seq.Replay)
}

// Advance starts a run from Idle, or replays once the run is over. It is
// the single "press Enter" action of the terminal front end.
func (e *Experience) Advance(ctx context.Context) error {
	return e.exec.Call(ctx, func() error {
		switch {
		case e.seq.Scene() == scene.Idle:
			e.seq.Start()
			return nil
		default:
			return e.seq.Replay()
		}
	})
}

// Snapshot returns the sequencer state and effect summaries, read together
// on the scheduler goroutine.
func (e *Experience) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := e.exec.Call(ctx, func() error {
		snap = e.snapshot()
		return nil
	})
	return snap, err
}

func (e *Experience) snapshot() Snapshot {
	effects := e.effects.Snapshots()
	summaries := make([]EffectSummary, 0, len(effects))
	for _, s := range effects {
		summaries = append(summaries, EffectSummary{
			Name:       s.Name,
			Active:     s.Active,
			Key:        s.Key,
			Population: len(s.Particles),
			Bound:      s.Bound,
		})
	}
	return Snapshot{State: e.seq.Snapshot(), Effects: summaries}
}

// Effect returns the full state of one effect, particles included.
//
// Returns:
//   - error: effect.ErrUnknownEffect for names outside the catalog
func (e *Experience) Effect(ctx context.Context, name effect.Name) (effect.Snapshot, error) {
	var snap effect.Snapshot
	err := e.exec.Call(ctx, func() error {
		fx, err := e.effects.Effect(name)
		if err != nil {
			return err
		}
		snap = fx.Snapshot()
		return nil
	})
	return snap, err
}

// Close stops the timeline and tears down every effect.
func (e *Experience) Close(ctx context.Context) error {
	return e.exec.Call(ctx, func() error {
		e.seq.Close()
		e.effects.Close()
		return nil
	})
}
