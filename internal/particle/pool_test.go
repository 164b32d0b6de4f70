package particle

import (
	"errors"
	"testing"
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/clock"
)

var t0 = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func newTestPool() (*Pool, *clock.Manual) {
	m := clock.NewManual(t0)
	return NewPool(m, testRNG()), m
}

func confettiConfig() Config {
	return Config{
		Key:   "confetti",
		Spec:  confettiSpec(),
		Count: 80,
		Refresh: &Refresh{
			Interval: 2 * time.Second,
			Window:   60,
			Batch:    30,
		},
	}
}

func TestPool_OneShotKeepsExactCount(t *testing.T) {
	pool, m := newTestPool()
	cfg := Config{Key: "sparkles", Spec: sparkleSpec(), Count: 25}

	if err := pool.Activate(cfg); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	for i := 0; i < 10; i++ {
		m.Advance(time.Second)
		if pool.Len() != 25 {
			t.Fatalf("Len() = %d at %ds, want 25", pool.Len(), i+1)
		}
	}
	if m.Pending() != 0 {
		t.Errorf("one-shot pool scheduled %d timers", m.Pending())
	}
}

func TestPool_ReplenishSteadyState(t *testing.T) {
	pool, m := newTestPool()
	if err := pool.Activate(confettiConfig()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if pool.Len() != 80 {
		t.Fatalf("initial Len() = %d, want 80", pool.Len())
	}

	m.Advance(2 * time.Second)
	if pool.Len() != 90 {
		t.Fatalf("Len() after tick 1 = %d, want 90", pool.Len())
	}

	m.Advance(2 * time.Second)
	if pool.Len() != 90 {
		t.Fatalf("Len() after tick 2 = %d, want 90", pool.Len())
	}

	for i := 0; i < 50; i++ {
		m.Advance(2 * time.Second)
		if n := pool.Len(); n > 90 {
			t.Fatalf("Len() = %d exceeds bound 90", n)
		}
	}
	if pool.Ticks() != 52 {
		t.Errorf("Ticks() = %d, want 52", pool.Ticks())
	}
}

func TestPool_ReplenishKeepsNewestAndIDsIncrease(t *testing.T) {
	pool, m := newTestPool()
	if err := pool.Activate(confettiConfig()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	m.Advance(2 * time.Second)
	ps := pool.Particles()

	// Window keeps IDs 21..80, then 30 new ones 81..110.
	if ps[0].ID != 21 {
		t.Errorf("oldest ID = %d, want 21", ps[0].ID)
	}
	if last := ps[len(ps)-1].ID; last != 110 {
		t.Errorf("newest ID = %d, want 110", last)
	}
	for i := 1; i < len(ps); i++ {
		if ps[i].ID <= ps[i-1].ID {
			t.Fatalf("IDs not increasing at %d: %d <= %d", i, ps[i].ID, ps[i-1].ID)
		}
	}
}

func TestPool_SmallInitialGrowsToBound(t *testing.T) {
	pool, m := newTestPool()
	cfg := Config{
		Key:     "fireworks",
		Spec:    fireworkSpec(),
		Count:   8,
		Refresh: &Refresh{Interval: 600 * time.Millisecond, Window: 15, Batch: 1},
	}
	if err := pool.Activate(cfg); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	sizes := []int{}
	for i := 0; i < 12; i++ {
		m.Advance(600 * time.Millisecond)
		sizes = append(sizes, pool.Len())
	}

	want := []int{9, 10, 11, 12, 13, 14, 15, 16, 16, 16, 16, 16}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("sizes = %v, want %v", sizes, want)
		}
	}
}

func TestPool_RefreshSpecOverride(t *testing.T) {
	pool, m := newTestPool()
	override := fireworkSpec()
	override.Delay = Fixed(0)
	override.Y = Range{10, 60}

	cfg := Config{
		Key:     "fireworks",
		Spec:    fireworkSpec(),
		Count:   8,
		Refresh: &Refresh{Interval: 600 * time.Millisecond, Window: 15, Batch: 1, Spec: &override},
	}
	if err := pool.Activate(cfg); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	m.Advance(600 * time.Millisecond)
	ps := pool.Particles()
	if newest := ps[len(ps)-1]; newest.Delay != 0 {
		t.Errorf("replenished burst delay = %v, want 0", newest.Delay)
	}
}

func TestPool_DeactivateTearsDown(t *testing.T) {
	pool, m := newTestPool()
	if err := pool.Activate(confettiConfig()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	m.Advance(3 * time.Second)

	pool.Deactivate()

	if pool.Len() != 0 || pool.Active() {
		t.Fatalf("after Deactivate: Len() = %d, Active() = %v", pool.Len(), pool.Active())
	}
	if m.Pending() != 0 {
		t.Fatalf("Pending() = %d after Deactivate, want 0", m.Pending())
	}

	m.Advance(time.Minute)
	if pool.Len() != 0 {
		t.Errorf("population changed after Deactivate: %d", pool.Len())
	}
}

func TestPool_DeactivateFromChangeCallback(t *testing.T) {
	pool, m := newTestPool()
	ticks := 0
	pool.SetOnChange(func(ps []Particle) {
		if len(ps) == 90 {
			ticks++
			pool.Deactivate()
		}
	})
	if err := pool.Activate(confettiConfig()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	m.Advance(10 * time.Second)

	if ticks != 1 {
		t.Errorf("ticks observed = %d, want 1", ticks)
	}
	if pool.Len() != 0 || m.Pending() != 0 {
		t.Errorf("Len() = %d, Pending() = %d, want 0/0", pool.Len(), m.Pending())
	}
}

func TestPool_ReactivateReplacesAtomically(t *testing.T) {
	pool, m := newTestPool()
	if err := pool.Activate(confettiConfig()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if err := pool.Activate(confettiConfig()); err != nil {
		t.Fatalf("second Activate() error = %v", err)
	}

	if pool.Len() != 80 {
		t.Errorf("Len() = %d, want 80", pool.Len())
	}
	if m.Pending() != 1 {
		t.Fatalf("Pending() = %d, want exactly one ticker", m.Pending())
	}

	// IDs continue from the first activation.
	if first := pool.Particles()[0].ID; first != 81 {
		t.Errorf("first ID after reactivation = %d, want 81", first)
	}

	m.Advance(2 * time.Second)
	if pool.Len() != 90 || pool.Ticks() != 1 {
		t.Errorf("Len() = %d, Ticks() = %d, want 90/1", pool.Len(), pool.Ticks())
	}
}

func TestPool_InvalidConfigLeavesPoolUntouched(t *testing.T) {
	pool, _ := newTestPool()
	if err := pool.Activate(Config{Key: "sparkles", Spec: sparkleSpec(), Count: 25}); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	bad := confettiConfig()
	bad.Count = 200
	err := pool.Activate(bad)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Activate() error = %v, want ErrInvalidConfig", err)
	}

	cfg, active := pool.Config()
	if !active || cfg.Key != "sparkles" || pool.Len() != 25 {
		t.Errorf("pool changed after rejected activation: key=%q len=%d", cfg.Key, pool.Len())
	}
}

func TestPool_SnapshotIsolation(t *testing.T) {
	pool, _ := newTestPool()
	cfg := Config{Key: "fw", Spec: fireworkSpec(), Count: 2}
	if err := pool.Activate(cfg); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	snap := pool.Particles()
	snap[0].X = -999
	snap[0].Sparks[0].Distance = -1

	fresh := pool.Particles()
	if fresh[0].X == -999 || fresh[0].Sparks[0].Distance == -1 {
		t.Error("mutating a snapshot changed the pool")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "one-shot", mutate: func(c *Config) { c.Refresh = nil }},
		{name: "zero interval", mutate: func(c *Config) { c.Refresh.Interval = 0 }, wantErr: true},
		{name: "zero batch", mutate: func(c *Config) { c.Refresh.Batch = 0 }, wantErr: true},
		{name: "negative window", mutate: func(c *Config) { c.Refresh.Window = -1 }, wantErr: true},
		{name: "count above bound", mutate: func(c *Config) { c.Count = 91 }, wantErr: true},
		{name: "negative count", mutate: func(c *Config) { c.Count = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := confettiConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Bound(t *testing.T) {
	if got := confettiConfig().Bound(); got != 90 {
		t.Errorf("replenishing Bound() = %d, want 90", got)
	}
	oneShot := Config{Count: 25}
	if got := oneShot.Bound(); got != 25 {
		t.Errorf("one-shot Bound() = %d, want 25", got)
	}
}
