package journal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amrit740/riti-s-cinematic-wish/internal/effect"
	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

// writeTimeout bounds each journal write.
const writeTimeout = 2 * time.Second

// Logger defines the logging interface used by the recorder.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Recorder turns sequencer and effect notifications into journal entries.
// Write failures are logged and never propagate to the caller.
type Recorder struct {
	repo   Repository
	now    func() time.Time
	newID  func() string
	logger Logger

	mu     sync.Mutex
	runID  string
	active map[effect.Name]bool
}

// NewRecorder creates a recorder.
//
// Parameters:
//   - repo: journal storage
//   - now: timestamp source for effect events (nil for time.Now)
//   - logger: Logger instance (nil for no logging)
func NewRecorder(repo Repository, now func() time.Time, logger Logger) *Recorder {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Recorder{
		repo:   repo,
		now:    now,
		newID:  uuid.NewString,
		logger: logger,
		active: make(map[effect.Name]bool),
	}
}

// RunID returns the current run's ID, or "" before the first start.
func (r *Recorder) RunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runID
}

// SceneChanged implements scene.Observer.
func (r *Recorder) SceneChanged(t scene.Transition) {
	r.mu.Lock()
	if t.Cause == scene.CauseStart || r.runID == "" {
		r.runID = r.newID()
	}
	runID := r.runID
	r.mu.Unlock()

	entry := &Transition{
		RunID:      runID,
		Generation: t.Generation,
		From:       t.From,
		To:         t.To,
		Cause:      t.Cause,
		At:         t.At,
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.repo.RecordTransition(ctx, entry); err != nil {
		r.logger.Warn("journal write failed", "to", t.To, "error", err)
	}
}

// EffectChanged records effect starts and stops. Replenishment of an
// already running effect is not journaled.
func (r *Recorder) EffectChanged(name effect.Name, ps []particle.Particle) {
	running := len(ps) > 0

	r.mu.Lock()
	was := r.active[name]
	r.active[name] = running
	runID := r.runID
	r.mu.Unlock()

	if was == running {
		return
	}
	if runID == "" {
		r.logger.Debug("effect event outside a run", "effect", name, "error", ErrNoRun)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	event := &EffectEvent{RunID: runID, Effect: string(name), Population: len(ps), At: r.now()}
	if err := r.repo.RecordEffect(ctx, event); err != nil {
		r.logger.Warn("journal write failed", "effect", name, "error", err)
	}
}
