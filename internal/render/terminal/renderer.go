package terminal

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/amrit740/riti-s-cinematic-wish/internal/effect"
	"github.com/amrit740/riti-s-cinematic-wish/internal/experience"
	"github.com/amrit740/riti-s-cinematic-wish/internal/particle"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

const defaultFPS = 20

// Logger defines the logging interface used by the renderer.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Source is the experience as seen by the renderer.
type Source interface {
	Snapshot(ctx context.Context) (experience.Snapshot, error)
	Effect(ctx context.Context, name effect.Name) (effect.Snapshot, error)
	Advance(ctx context.Context) error
}

// Options tunes the renderer.
type Options struct {
	// FPS is the redraw rate.
	FPS int

	// QuitAfter ends Run once the Closure scene has been on screen this
	// long. Zero keeps the final scene up until the viewer quits.
	QuitAfter time.Duration
}

// Renderer draws the experience on a tcell screen and turns key presses
// into actions.
type Renderer struct {
	screen tcell.Screen
	src    Source
	opts   Options
	logger Logger
	now    func() time.Time

	// Scene entry tracking for cue delays.
	gen     uint64
	current scene.Scene
	entered time.Time
}

// New creates a renderer. The screen must already be initialised; the
// caller owns it and calls Fini after Run returns.
func New(screen tcell.Screen, src Source, opts Options, logger Logger) *Renderer {
	if logger == nil {
		logger = noopLogger{}
	}
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	return &Renderer{
		screen: screen,
		src:    src,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Run draws frames until ctx is cancelled, the viewer quits, or the
// QuitAfter limit is reached. It returns nil in all three cases.
func (r *Renderer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(r.opts.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if quit := r.handleEvent(ctx, ev); quit {
				return nil
			}

		case <-ticker.C:
			done, err := r.render(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				r.logger.Warn("frame skipped", "error", err)
				continue
			}
			if done {
				return nil
			}
		}
	}
}

// handleEvent reacts to one terminal event and reports whether to quit.
func (r *Renderer) handleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return true
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return true
		case ev.Key() == tcell.KeyEnter || (ev.Key() == tcell.KeyRune && ev.Rune() == ' '):
			err := r.src.Advance(ctx)
			switch {
			case errors.Is(err, scene.ErrReplayNotReady):
				r.logger.Debug("replay ignored until the closing scene")
			case err != nil:
				r.logger.Warn("advance failed", "error", err)
			}
		}
	case *tcell.EventResize:
		r.screen.Sync()
	}
	return false
}

// render draws one frame and reports whether QuitAfter has elapsed.
func (r *Renderer) render(ctx context.Context) (bool, error) {
	f, err := r.frame(ctx)
	if err != nil {
		return false, err
	}
	draw(r.screen, f)
	r.screen.Show()

	done := r.opts.QuitAfter > 0 && f.snap.Scene == scene.Closure && f.elapsed >= r.opts.QuitAfter
	return done, nil
}

// frame collects the snapshot and the particles of every active effect.
func (r *Renderer) frame(ctx context.Context) (frame, error) {
	snap, err := r.src.Snapshot(ctx)
	if err != nil {
		return frame{}, err
	}

	now := r.now()
	if r.entered.IsZero() || snap.Generation != r.gen || snap.Scene != r.current {
		r.gen, r.current, r.entered = snap.Generation, snap.Scene, now
	}

	f := frame{
		snap:      snap,
		particles: make(map[effect.Name][]particle.Particle, len(snap.Effects)),
		elapsed:   now.Sub(r.entered),
	}
	for _, e := range snap.Effects {
		if !e.Active {
			continue
		}
		fx, err := r.src.Effect(ctx, e.Name)
		if err != nil {
			return frame{}, err
		}
		f.particles[e.Name] = fx.Particles
	}
	return f, nil
}
