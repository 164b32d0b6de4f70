// Package telemetry writes scene and effect metrics to a time-series store.
package telemetry

import (
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/effect"
	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

// Writer is implemented by *influxdb.Client. Writes must not block.
type Writer interface {
	WriteSceneTransition(from, to, cause string, generation uint64, background float64, at time.Time)
	WriteEffectPopulation(effect string, population int, at time.Time)
}

// Recorder turns experience callbacks into points. It implements
// scene.Observer and experience.EffectObserver.
type Recorder struct {
	w   Writer
	now func() time.Time
}

// NewRecorder creates a recorder. now stamps effect points; nil means time.Now.
func NewRecorder(w Writer, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{w: w, now: now}
}

// SceneChanged implements scene.Observer.
func (r *Recorder) SceneChanged(t scene.Transition) {
	r.w.WriteSceneTransition(t.From.String(), t.To.String(), string(t.Cause), t.Generation, t.To.BackgroundIntensity(), t.At)
}

// EffectChanged records the population after every change, including the
// zero written on teardown.
func (r *Recorder) EffectChanged(name effect.Name, ps []particle.Particle) {
	r.w.WriteEffectPopulation(string(name), len(ps), r.now())
}
