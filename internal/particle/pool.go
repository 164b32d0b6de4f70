package particle

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/clock"
)

// Refresh is the sliding-window replenishment policy of a pool.
//
// On every tick the pool keeps at most the Window most recent particles and
// appends Batch fresh ones generated from Spec (or the pool's base spec
// when Spec is nil).
type Refresh struct {
	Interval time.Duration
	Window   int
	Batch    int
	Spec     *Spec
}

// Config is the immutable configuration of one pool activation.
type Config struct {
	// Key identifies the configuration. Two configs with the same Key are
	// treated as equal by the effect reconciler.
	Key string

	// Spec drives the initial population (and replenishment, unless
	// Refresh.Spec overrides it).
	Spec Spec

	// Count is the size of the initial population.
	Count int

	// Refresh enables periodic replenishment. Nil means one-shot.
	Refresh *Refresh
}

// OneShot reports whether the pool is generated once and never replenished.
func (c Config) OneShot() bool {
	return c.Refresh == nil
}

// Bound returns the maximum pool size for this configuration.
func (c Config) Bound() int {
	if c.Refresh == nil {
		return c.Count
	}
	return c.Refresh.Window + c.Refresh.Batch
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if err := c.Spec.Validate(); err != nil {
		return err
	}
	if c.Count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidConfig, c.Count)
	}
	if c.Refresh == nil {
		return nil
	}

	r := c.Refresh
	if r.Interval <= 0 {
		return fmt.Errorf("%w: refresh interval must be positive", ErrInvalidConfig)
	}
	if r.Window < 0 || r.Batch <= 0 {
		return fmt.Errorf("%w: window %d / batch %d", ErrInvalidConfig, r.Window, r.Batch)
	}
	if c.Count > c.Bound() {
		return fmt.Errorf("%w: count %d exceeds window+batch %d", ErrInvalidConfig, c.Count, c.Bound())
	}
	if r.Spec != nil {
		if err := r.Spec.Validate(); err != nil {
			return fmt.Errorf("refresh spec: %w", err)
		}
	}
	return nil
}

// ChangeFunc receives a snapshot of the pool after every population change.
type ChangeFunc func(particles []Particle)

// Pool owns the live particles of one effect instance.
//
// Identities increase monotonically for the lifetime of the Pool, across
// activations, so a presenter can key elements by ID.
//
// Thread Safety: all methods are safe for concurrent use. The change
// callback is invoked without the pool lock held.
type Pool struct {
	sched clock.Scheduler

	mu         sync.Mutex
	rng        *rand.Rand
	cfg        Config
	active     bool
	particles  []Particle
	nextID     uint64
	ticker     clock.Timer
	activation uint64
	ticks      int
	onChange   ChangeFunc
}

// NewPool creates an empty, inactive pool.
//
// Parameters:
//   - sched: scheduler driving replenishment ticks
//   - rng: random source owned exclusively by this pool
func NewPool(sched clock.Scheduler, rng *rand.Rand) *Pool {
	return &Pool{
		sched:  sched,
		rng:    rng,
		nextID: 1,
	}
}

// SetOnChange installs the change callback.
func (p *Pool) SetOnChange(fn ChangeFunc) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Activate installs a fresh population for cfg and starts replenishment if
// cfg has a Refresh policy.
//
// Activating an already-active pool replaces it atomically: the previous
// timer is stopped and the previous particles discarded before the new
// batch is visible.
//
// Returns:
//   - error: ErrInvalidSpec / ErrInvalidConfig; the pool is left untouched
func (p *Pool) Activate(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	p.stopTickerLocked()
	p.activation++
	p.cfg = cfg
	p.active = true
	p.ticks = 0
	p.particles = Generate(p.rng, cfg.Spec, cfg.Count, p.nextID)
	p.nextID += uint64(cfg.Count)

	if cfg.Refresh != nil {
		activation := p.activation
		p.ticker = p.sched.Every(cfg.Refresh.Interval, func() {
			p.replenish(activation)
		})
	}
	snapshot, notify := p.snapshotLocked(), p.onChange
	p.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
	return nil
}

// Deactivate stops replenishment and empties the pool. It is safe to call
// on an inactive pool.
func (p *Pool) Deactivate() {
	p.mu.Lock()
	wasActive := p.active
	p.stopTickerLocked()
	p.activation++
	p.active = false
	p.cfg = Config{}
	p.particles = nil
	notify := p.onChange
	p.mu.Unlock()

	if wasActive && notify != nil {
		notify(nil)
	}
}

// replenish runs on every refresh tick. Ticks belonging to an earlier
// activation are ignored.
func (p *Pool) replenish(activation uint64) {
	p.mu.Lock()
	if !p.active || activation != p.activation || p.cfg.Refresh == nil {
		p.mu.Unlock()
		return
	}

	r := p.cfg.Refresh
	spec := p.cfg.Spec
	if r.Spec != nil {
		spec = *r.Spec
	}

	keep := p.particles
	if len(keep) > r.Window {
		keep = keep[len(keep)-r.Window:]
	}
	next := make([]Particle, 0, len(keep)+r.Batch)
	next = append(next, keep...)
	next = append(next, Generate(p.rng, spec, r.Batch, p.nextID)...)
	p.nextID += uint64(r.Batch)
	p.particles = next
	p.ticks++

	snapshot, notify := p.snapshotLocked(), p.onChange
	p.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
}

func (p *Pool) stopTickerLocked() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
}

func (p *Pool) snapshotLocked() []Particle {
	out := make([]Particle, len(p.particles))
	for i, pt := range p.particles {
		out[i] = pt
		out[i].Sparks = slices.Clone(pt.Sparks)
	}
	return out
}

// Particles returns a copy of the live particles, oldest first.
func (p *Pool) Particles() []Particle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Len returns the current population.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.particles)
}

// Active reports whether the pool is between Activate and Deactivate.
func (p *Pool) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Config returns the configuration of the current activation.
func (p *Pool) Config() (Config, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg, p.active
}

// Ticks returns how many replenishment ticks the current activation has run.
func (p *Pool) Ticks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticks
}
