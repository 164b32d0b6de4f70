package experience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/audio"
	"github.com/amrit740/riti-s-cinematic-wish/internal/clock"
	"github.com/amrit740/riti-s-cinematic-wish/internal/effect"
	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

var t0 = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func newTestExperience(t *testing.T, mutate func(*Options)) (*Experience, *clock.Manual) {
	t.Helper()
	m := clock.NewManual(t0)
	opts := DefaultOptions()
	opts.Rand = effect.SeededRand(3)
	if mutate != nil {
		mutate(&opts)
	}
	exp, err := New(m, clock.Inline{}, &audio.Silent{}, opts, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return exp, m
}

func activeNames(snap Snapshot) []effect.Name {
	var out []effect.Name
	for _, e := range snap.Effects {
		if e.Active {
			out = append(out, e.Name)
		}
	}
	return out
}

func TestExperience_FullRun(t *testing.T) {
	ctx := context.Background()
	exp, m := newTestExperience(t, nil)

	snap, err := exp.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Scene != scene.Idle || len(activeNames(snap)) != 0 || !snap.Cues.StartButton {
		t.Fatalf("idle snapshot = %+v", snap)
	}

	if err := exp.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	checks := []struct {
		at     time.Duration
		scene  scene.Scene
		active int
	}{
		{time.Second, scene.Awakening, 1},
		{4 * time.Second, scene.Reveal, 1},
		{10 * time.Second, scene.Celebration, 3},
		{15 * time.Second, scene.Closure, 2},
	}
	for _, c := range checks {
		m.Advance(t0.Add(c.at).Sub(m.Now()))
		snap, err := exp.Snapshot(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if snap.Scene != c.scene || len(activeNames(snap)) != c.active {
			t.Errorf("at %v: scene = %v, active = %v", c.at, snap.Scene, activeNames(snap))
		}
	}

	if err := exp.Replay(ctx); err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	snap, _ = exp.Snapshot(ctx)
	if snap.Scene != scene.Idle || len(activeNames(snap)) != 0 || snap.BackgroundIntensity != 0 {
		t.Errorf("after replay = %+v", snap)
	}
}

func TestExperience_ReplayRejectedMidRun(t *testing.T) {
	ctx := context.Background()
	exp, m := newTestExperience(t, nil)
	if err := exp.Start(ctx); err != nil {
		t.Fatal(err)
	}
	m.Advance(4 * time.Second)

	if err := exp.Replay(ctx); !errors.Is(err, scene.ErrReplayNotReady) {
		t.Errorf("Replay() error = %v, want ErrReplayNotReady", err)
	}
}

func TestExperience_AdvanceStartsThenReplays(t *testing.T) {
	ctx := context.Background()
	exp, m := newTestExperience(t, nil)

	if err := exp.Advance(ctx); err != nil {
		t.Fatalf("Advance() from Idle error = %v", err)
	}
	snap, _ := exp.Snapshot(ctx)
	if snap.Scene != scene.Awakening {
		t.Fatalf("scene = %v", snap.Scene)
	}

	if err := exp.Advance(ctx); !errors.Is(err, scene.ErrReplayNotReady) {
		t.Errorf("Advance() mid-run error = %v", err)
	}

	m.Advance(20 * time.Second)
	if err := exp.Advance(ctx); err != nil {
		t.Fatalf("Advance() from Closure error = %v", err)
	}
	snap, _ = exp.Snapshot(ctx)
	if snap.Scene != scene.Idle {
		t.Errorf("scene after replay = %v", snap.Scene)
	}
}

func TestExperience_ObserverOrdering(t *testing.T) {
	ctx := context.Background()
	var order []string

	var exp *Experience
	exp, _ = newTestExperience(t, func(o *Options) {
		o.Observers = []scene.Observer{scene.ObserverFunc(func(scene.Transition) {
			order = append(order, "before")
		})}
	})
	exp.SubscribeEffects(EffectObserverFunc(func(name effect.Name, _ []particle.Particle) {
		order = append(order, "effect:"+string(name))
	}))
	exp.Subscribe(scene.ObserverFunc(func(scene.Transition) {
		order = append(order, "after")
	}))

	if err := exp.Start(ctx); err != nil {
		t.Fatal(err)
	}

	want := []string{"before", "effect:ambient", "after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestExperience_Effect(t *testing.T) {
	ctx := context.Background()
	exp, m := newTestExperience(t, func(o *Options) {
		o.Plan.FireworksScenes = []scene.Scene{scene.Celebration}
	})
	if err := exp.Start(ctx); err != nil {
		t.Fatal(err)
	}
	m.Advance(9 * time.Second)

	fw, err := exp.Effect(ctx, effect.Fireworks)
	if err != nil {
		t.Fatalf("Effect() error = %v", err)
	}
	if !fw.Active || len(fw.Particles) != 8 || fw.Bound != 16 {
		t.Errorf("fireworks = active %v, %d particles, bound %d", fw.Active, len(fw.Particles), fw.Bound)
	}

	if _, err := exp.Effect(ctx, "smoke"); !errors.Is(err, effect.ErrUnknownEffect) {
		t.Errorf("Effect(smoke) error = %v", err)
	}
}

func TestExperience_Close(t *testing.T) {
	ctx := context.Background()
	exp, m := newTestExperience(t, nil)
	if err := exp.Start(ctx); err != nil {
		t.Fatal(err)
	}
	m.Advance(10 * time.Second)

	if err := exp.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if m.Pending() != 0 {
		t.Errorf("Pending() = %d after Close", m.Pending())
	}
	snap, _ := exp.Snapshot(ctx)
	if len(activeNames(snap)) != 0 {
		t.Errorf("active after Close = %v", activeNames(snap))
	}
}

func TestExperience_CancelledContext(t *testing.T) {
	exp, _ := newTestExperience(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := exp.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}
}
