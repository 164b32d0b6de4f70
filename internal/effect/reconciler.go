package effect

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sync"

	"github.com/amrit740/riti-s-cinematic-wish/internal/clock"
	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

// Logger defines the logging interface used by the reconciler.
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

// RandFactory returns the random source owned by one effect's pool.
type RandFactory func(name Name) *rand.Rand

// SeededRand returns a factory producing reproducible per-effect sources
// derived from seed.
func SeededRand(seed uint64) RandFactory {
	return func(name Name) *rand.Rand {
		h := fnv.New64a()
		h.Write([]byte(name))
		return rand.New(rand.NewPCG(seed, h.Sum64()))
	}
}

// EntropyRand returns a factory producing unpredictable sources.
func EntropyRand() RandFactory {
	return func(Name) *rand.Rand {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// ChangeFunc receives the particles of an effect after every change. An
// empty slice means the effect was torn down.
type ChangeFunc func(name Name, particles []particle.Particle)

// Effect is one named effect instance backed by a particle pool.
type Effect struct {
	name Name
	pool *particle.Pool
}

// Name returns the effect name.
func (e *Effect) Name() Name { return e.name }

// Activate (re)starts the effect with cfg.
func (e *Effect) Activate(cfg particle.Config) error {
	if err := e.pool.Activate(cfg); err != nil {
		return fmt.Errorf("activating %s: %w", e.name, err)
	}
	return nil
}

// Deactivate stops the effect and clears its particles.
func (e *Effect) Deactivate() { e.pool.Deactivate() }

// Particles returns a snapshot of the live particles.
func (e *Effect) Particles() []particle.Particle { return e.pool.Particles() }

// Active reports whether the effect is running.
func (e *Effect) Active() bool { return e.pool.Active() }

// Snapshot returns the effect's observable state.
func (e *Effect) Snapshot() Snapshot {
	cfg, active := e.pool.Config()
	snap := Snapshot{
		Name:      e.name,
		Active:    active,
		Particles: e.pool.Particles(),
	}
	if active {
		snap.Key = cfg.Key
		snap.Bound = cfg.Bound()
	}
	return snap
}

// Reconciler keeps the live effects in line with a Plan.
//
// It implements scene.Observer so it can be subscribed directly to the
// sequencer.
type Reconciler struct {
	plan    Plan
	logger  Logger
	effects map[Name]*Effect

	mu       sync.Mutex
	onChange ChangeFunc
}

// NewReconciler creates one inactive effect per catalog name.
//
// Parameters:
//   - sched: scheduler driving pool replenishment
//   - rng: per-effect random source factory (nil for EntropyRand)
//   - plan: scene→effects mapping
//   - logger: Logger instance (nil for no logging)
func NewReconciler(sched clock.Scheduler, rng RandFactory, plan Plan, logger Logger) *Reconciler {
	if rng == nil {
		rng = EntropyRand()
	}
	if logger == nil {
		logger = noopLogger{}
	}

	r := &Reconciler{
		plan:    plan,
		logger:  logger,
		effects: make(map[Name]*Effect, len(Names())),
	}
	for _, name := range Names() {
		pool := particle.NewPool(sched, rng(name))
		pool.SetOnChange(func(ps []particle.Particle) {
			r.changed(name, ps)
		})
		r.effects[name] = &Effect{name: name, pool: pool}
	}
	return r
}

// SetOnChange installs the change callback. It runs without any reconciler
// lock held.
func (r *Reconciler) SetOnChange(fn ChangeFunc) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

func (r *Reconciler) changed(name Name, ps []particle.Particle) {
	r.mu.Lock()
	fn := r.onChange
	r.mu.Unlock()
	if fn != nil {
		fn(name, ps)
	}
}

// Reconcile brings the live effects in line with the plan for s.
//
// Effects missing from the plan are deactivated first so pools never
// overlap more than necessary. Every failure is collected; a bad config for
// one effect does not block the others.
func (r *Reconciler) Reconcile(s scene.Scene) error {
	desired := r.plan(s)

	var errs []error
	for name := range desired {
		if _, ok := r.effects[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownEffect, name))
		}
	}

	for _, name := range Names() {
		e := r.effects[name]
		if _, want := desired[name]; !want && e.Active() {
			e.Deactivate()
			r.logger.Debug("effect deactivated", "effect", name, "scene", s)
		}
	}

	for _, name := range Names() {
		cfg, want := desired[name]
		if !want {
			continue
		}
		e := r.effects[name]
		current, active := e.pool.Config()
		if active && current.Key == cfg.Key {
			continue
		}
		if err := e.Activate(cfg); err != nil {
			errs = append(errs, err)
			continue
		}
		r.logger.Debug("effect activated", "effect", name, "key", cfg.Key, "scene", s)
	}

	return errors.Join(errs...)
}

// SceneChanged implements scene.Observer.
func (r *Reconciler) SceneChanged(t scene.Transition) {
	if err := r.Reconcile(t.To); err != nil {
		r.logger.Error("effect reconciliation failed", "scene", t.To, "error", err)
	}
}

// Effect returns the named effect.
func (r *Reconciler) Effect(name Name) (*Effect, error) {
	e, ok := r.effects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	return e, nil
}

// Snapshots returns every effect's state in catalog order.
func (r *Reconciler) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(r.effects))
	for _, name := range Names() {
		out = append(out, r.effects[name].Snapshot())
	}
	return out
}

// ActiveNames lists the running effects in catalog order.
func (r *Reconciler) ActiveNames() []Name {
	var out []Name
	for _, name := range Names() {
		if r.effects[name].Active() {
			out = append(out, name)
		}
	}
	return out
}

// Close deactivates every effect.
func (r *Reconciler) Close() {
	for _, name := range Names() {
		r.effects[name].Deactivate()
	}
}
