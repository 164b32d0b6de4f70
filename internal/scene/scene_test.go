package scene

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestScene_StringAndParse(t *testing.T) {
	for _, s := range All() {
		parsed, err := ParseScene(s.String())
		if err != nil {
			t.Fatalf("ParseScene(%q) error = %v", s, err)
		}
		if parsed != s {
			t.Errorf("ParseScene(%q) = %v", s, parsed)
		}
	}

	if _, err := ParseScene("finale"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("ParseScene(finale) error = %v, want ErrUnknownScene", err)
	}
	if got, _ := ParseScene(" Reveal "); got != Reveal {
		t.Errorf("ParseScene is not case/space tolerant: %v", got)
	}
}

func TestScene_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Scene{"scene": Celebration})
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(data) != `{"scene":"celebration"}` {
		t.Errorf("Marshal = %s", data)
	}

	var out struct{ Scene Scene }
	if err := json.Unmarshal([]byte(`{"Scene":"closure"}`), &out); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if out.Scene != Closure {
		t.Errorf("Unmarshal scene = %v", out.Scene)
	}
}

func TestScene_BackgroundIntensity(t *testing.T) {
	tests := []struct {
		scene Scene
		want  float64
	}{
		{Idle, 0},
		{Awakening, 0.3},
		{Reveal, 0.5},
		{Celebration, 0.7},
		{Closure, 0.7},
		{Scene(42), 0},
	}
	for _, tt := range tests {
		if got := tt.scene.BackgroundIntensity(); got != tt.want {
			t.Errorf("%v.BackgroundIntensity() = %v, want %v", tt.scene, got, tt.want)
		}
	}
}

func TestTimeline_Defaults(t *testing.T) {
	steps := Timeline(DefaultDurations())
	want := []Step{
		{Awakening, 0},
		{Reveal, 3000 * time.Millisecond},
		{Celebration, 9000 * time.Millisecond},
		{Closure, 14000 * time.Millisecond},
	}
	if len(steps) != len(want) {
		t.Fatalf("len = %d", len(steps))
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, steps[i], want[i])
		}
	}
}

func TestDurations_Validate(t *testing.T) {
	d := DefaultDurations()
	if err := d.Validate(); err != nil {
		t.Fatalf("default durations invalid: %v", err)
	}
	d.Reveal = 0
	if err := d.Validate(); !errors.Is(err, ErrInvalidTimeline) {
		t.Errorf("Validate() = %v, want ErrInvalidTimeline", err)
	}
}

func TestCuesFor(t *testing.T) {
	g := DefaultGreeting()

	idle := CuesFor(Idle, g)
	if !idle.StartButton || idle.Prompt == "" || len(idle.RevealLines) != 0 {
		t.Errorf("idle cues = %+v", idle)
	}

	awake := CuesFor(Awakening, g)
	if awake.StartButton || awake.Awakening != g.Awakening {
		t.Errorf("awakening cues = %+v", awake)
	}

	reveal := CuesFor(Reveal, g)
	if len(reveal.RevealLines) != 3 || !reveal.RevealLines[2].Emphasis || reveal.RevealLines[2].Text != "Riti" {
		t.Errorf("reveal lines = %+v", reveal.RevealLines)
	}
	if reveal.Cake || reveal.Birthday != nil {
		t.Error("reveal should not show cake or birthday message")
	}

	celebration := CuesFor(Celebration, g)
	if !celebration.Cake || celebration.Birthday == nil || celebration.Photo || celebration.Actions {
		t.Errorf("celebration cues = %+v", celebration)
	}

	closure := CuesFor(Closure, g)
	if !closure.Cake || !closure.Photo || !closure.Actions || closure.Closing == nil {
		t.Errorf("closure cues = %+v", closure)
	}
}
