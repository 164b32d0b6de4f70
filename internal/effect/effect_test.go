package effect

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/clock"
	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

var t0 = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func newTestReconciler(opts PlanOptions) (*Reconciler, *clock.Manual) {
	m := clock.NewManual(t0)
	return NewReconciler(m, SeededRand(42), DefaultPlan(opts), nil), m
}

func TestCatalog_ConfigsAreValid(t *testing.T) {
	configs := []particle.Config{
		AmbientField(Low, VariantAmbient),
		AmbientField(High, VariantCelebration),
		ConfettiConfig(SpreadWide),
		ConfettiConfig(SpreadNarrow),
		SparklesConfig(),
		FireworksConfig(),
	}
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: Validate() = %v", cfg.Key, err)
		}
	}
}

func TestCatalog_Counts(t *testing.T) {
	tests := []struct {
		name      string
		cfg       particle.Config
		count     int
		bound     int
		replenish bool
	}{
		{"ambient low", AmbientField(Low, VariantAmbient), 20, 20, false},
		{"ambient medium", AmbientField(Medium, VariantAmbient), 40, 40, false},
		{"ambient high", AmbientField(High, VariantCelebration), 60, 60, false},
		{"confetti", ConfettiConfig(SpreadWide), 80, 90, true},
		{"sparkles", SparklesConfig(), 25, 25, false},
		{"fireworks", FireworksConfig(), 8, 16, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cfg.Count != tt.count || tt.cfg.Bound() != tt.bound || tt.cfg.OneShot() == tt.replenish {
				t.Errorf("count=%d bound=%d oneShot=%v", tt.cfg.Count, tt.cfg.Bound(), tt.cfg.OneShot())
			}
		})
	}
}

func TestCatalog_AmbientKeyTracksIntensityAndVariant(t *testing.T) {
	a := AmbientField(Medium, VariantAmbient)
	b := AmbientField(High, VariantCelebration)
	if a.Key == b.Key {
		t.Errorf("keys equal: %q", a.Key)
	}
	if b.Spec.Size.Max != 8 || a.Spec.Size.Max != 5 {
		t.Errorf("size ranges = %v / %v", a.Spec.Size, b.Spec.Size)
	}
}

func TestCatalog_Lookup(t *testing.T) {
	if _, err := Lookup("smoke", SpreadWide); !errors.Is(err, ErrUnknownEffect) {
		t.Errorf("Lookup(smoke) error = %v", err)
	}
	cfg, err := Lookup(Confetti, SpreadNarrow)
	if err != nil || cfg.Spec.X.Min != 45 || cfg.Spec.X.Max != 55 {
		t.Errorf("Lookup(confetti, narrow) = %+v, %v", cfg.Spec.X, err)
	}
}

func TestDefaultPlan(t *testing.T) {
	plan := DefaultPlan(PlanOptions{})

	tests := []struct {
		scene scene.Scene
		want  []Name
	}{
		{scene.Idle, nil},
		{scene.Awakening, []Name{Ambient}},
		{scene.Reveal, []Name{Ambient}},
		{scene.Celebration, []Name{Ambient, Confetti, Sparkles}},
		{scene.Closure, []Name{Ambient, Sparkles}},
	}
	for _, tt := range tests {
		t.Run(tt.scene.String(), func(t *testing.T) {
			desired := plan(tt.scene)
			var got []Name
			for _, n := range Names() {
				if _, ok := desired[n]; ok {
					got = append(got, n)
				}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("plan(%v) = %v, want %v", tt.scene, got, tt.want)
			}
		})
	}

	if key := plan(scene.Celebration)[Ambient].Key; key != "ambient/high/celebration" {
		t.Errorf("celebration ambient key = %q", key)
	}
}

func TestDefaultPlan_FireworksScenes(t *testing.T) {
	plan := DefaultPlan(PlanOptions{FireworksScenes: []scene.Scene{scene.Celebration}})
	if _, ok := plan(scene.Celebration)[Fireworks]; !ok {
		t.Error("fireworks missing in Celebration")
	}
	if _, ok := plan(scene.Closure)[Fireworks]; ok {
		t.Error("fireworks present in Closure")
	}
}

func TestReconciler_FollowsScenes(t *testing.T) {
	r, m := newTestReconciler(PlanOptions{})

	steps := []struct {
		scene scene.Scene
		want  []Name
	}{
		{scene.Awakening, []Name{Ambient}},
		{scene.Reveal, []Name{Ambient}},
		{scene.Celebration, []Name{Ambient, Confetti, Sparkles}},
		{scene.Closure, []Name{Ambient, Sparkles}},
		{scene.Idle, nil},
	}
	for _, st := range steps {
		if err := r.Reconcile(st.scene); err != nil {
			t.Fatalf("Reconcile(%v) error = %v", st.scene, err)
		}
		if got := r.ActiveNames(); !slices.Equal(got, st.want) {
			t.Errorf("after %v active = %v, want %v", st.scene, got, st.want)
		}
	}

	if m.Pending() != 0 {
		t.Errorf("Pending() = %d after returning to Idle", m.Pending())
	}
}

func TestReconciler_KeepsUnchangedEffects(t *testing.T) {
	r, _ := newTestReconciler(PlanOptions{})
	if err := r.Reconcile(scene.Awakening); err != nil {
		t.Fatal(err)
	}
	ambient, _ := r.Effect(Ambient)
	before := ambient.Particles()

	if err := r.Reconcile(scene.Reveal); err != nil {
		t.Fatal(err)
	}
	after := ambient.Particles()
	if before[0].ID != after[0].ID {
		t.Error("ambient field regenerated although its key did not change")
	}

	// Celebration switches to the high/celebration field.
	if err := r.Reconcile(scene.Celebration); err != nil {
		t.Fatal(err)
	}
	celebration := ambient.Particles()
	if len(celebration) != 60 || celebration[0].ID == before[0].ID {
		t.Errorf("ambient not regenerated for celebration: len=%d", len(celebration))
	}
}

func TestReconciler_SparklesSurviveIntoClosure(t *testing.T) {
	r, _ := newTestReconciler(PlanOptions{})
	if err := r.Reconcile(scene.Celebration); err != nil {
		t.Fatal(err)
	}
	sparkles, _ := r.Effect(Sparkles)
	first := sparkles.Particles()[0].ID

	if err := r.Reconcile(scene.Closure); err != nil {
		t.Fatal(err)
	}
	if sparkles.Particles()[0].ID != first {
		t.Error("sparkles regenerated between Celebration and Closure")
	}
}

func TestReconciler_ConfettiBoundedWhileRunning(t *testing.T) {
	r, m := newTestReconciler(PlanOptions{FireworksScenes: []scene.Scene{scene.Celebration}})
	if err := r.Reconcile(scene.Celebration); err != nil {
		t.Fatal(err)
	}
	confetti, _ := r.Effect(Confetti)
	fireworks, _ := r.Effect(Fireworks)

	for i := 0; i < 30; i++ {
		m.Advance(500 * time.Millisecond)
		if n := len(confetti.Particles()); n > 90 {
			t.Fatalf("confetti population %d exceeds 90", n)
		}
		if n := len(fireworks.Particles()); n > 16 {
			t.Fatalf("fireworks population %d exceeds 16", n)
		}
	}

	if err := r.Reconcile(scene.Closure); err != nil {
		t.Fatal(err)
	}
	if confetti.Active() || len(confetti.Particles()) != 0 {
		t.Error("confetti still active in Closure")
	}
	if fireworks.Active() {
		t.Error("fireworks still active in Closure")
	}
}

func TestReconciler_OnChange(t *testing.T) {
	r, _ := newTestReconciler(PlanOptions{})
	counts := map[Name][]int{}
	r.SetOnChange(func(name Name, ps []particle.Particle) {
		counts[name] = append(counts[name], len(ps))
	})

	if err := r.Reconcile(scene.Celebration); err != nil {
		t.Fatal(err)
	}
	if err := r.Reconcile(scene.Idle); err != nil {
		t.Fatal(err)
	}

	want := map[Name][]int{
		Ambient:  {60, 0},
		Confetti: {80, 0},
		Sparkles: {25, 0},
	}
	for name, w := range want {
		if !slices.Equal(counts[name], w) {
			t.Errorf("%s changes = %v, want %v", name, counts[name], w)
		}
	}
	if _, ok := counts[Fireworks]; ok {
		t.Error("fireworks reported a change without being activated")
	}
}

func TestReconciler_UnknownEffectInPlan(t *testing.T) {
	m := clock.NewManual(t0)
	plan := func(scene.Scene) map[Name]particle.Config {
		return map[Name]particle.Config{
			"smoke":  SparklesConfig(),
			Sparkles: SparklesConfig(),
		}
	}
	r := NewReconciler(m, SeededRand(1), plan, nil)

	err := r.Reconcile(scene.Closure)
	if !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("Reconcile() error = %v, want ErrUnknownEffect", err)
	}
	if got := r.ActiveNames(); !slices.Equal(got, []Name{Sparkles}) {
		t.Errorf("active = %v, want [sparkles]", got)
	}
}

func TestReconciler_SceneObserver(t *testing.T) {
	r, _ := newTestReconciler(PlanOptions{})
	r.SceneChanged(scene.Transition{From: scene.Reveal, To: scene.Celebration, Generation: 1})

	if got := r.ActiveNames(); len(got) != 3 {
		t.Errorf("active after observer call = %v", got)
	}

	r.Close()
	if got := r.ActiveNames(); len(got) != 0 {
		t.Errorf("active after Close = %v", got)
	}
}

func TestReconciler_EffectLookup(t *testing.T) {
	r, _ := newTestReconciler(PlanOptions{})
	if _, err := r.Effect("smoke"); !errors.Is(err, ErrUnknownEffect) {
		t.Errorf("Effect(smoke) error = %v", err)
	}
	snaps := r.Snapshots()
	if len(snaps) != 4 || snaps[0].Name != Ambient || snaps[0].Active {
		t.Errorf("Snapshots() = %+v", snaps)
	}
}

func TestSeededRand_Reproducible(t *testing.T) {
	a := SeededRand(9)(Confetti).Uint64()
	b := SeededRand(9)(Confetti).Uint64()
	c := SeededRand(9)(Sparkles).Uint64()
	if a != b {
		t.Error("same seed and name produced different sources")
	}
	if a == c {
		t.Error("different effects share a source")
	}
}
