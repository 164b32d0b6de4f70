package journal

import (
	"context"
	"errors"
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

// ErrNoRun is returned when an event arrives before any run began.
var ErrNoRun = errors.New("journal: no run in progress")

// Transition is a journaled scene change.
type Transition struct {
	ID         int64       `json:"id"`
	RunID      string      `json:"run_id"`
	Generation uint64      `json:"generation"`
	From       scene.Scene `json:"from"`
	To         scene.Scene `json:"to"`
	Cause      scene.Cause `json:"cause"`
	At         time.Time   `json:"at"`
}

// EffectEvent is a journaled effect start (Population > 0) or stop
// (Population == 0).
type EffectEvent struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	Effect     string    `json:"effect"`
	Population int       `json:"population"`
	At         time.Time `json:"at"`
}

// Filter narrows a listing.
type Filter struct {
	RunID string // optional
	Limit int    // default 100, max 1000
}

func (f Filter) limit() int {
	switch {
	case f.Limit <= 0:
		return 100
	case f.Limit > 1000:
		return 1000
	default:
		return f.Limit
	}
}

// Repository stores journal entries.
type Repository interface {
	RecordTransition(ctx context.Context, t *Transition) error
	RecordEffect(ctx context.Context, e *EffectEvent) error
	Transitions(ctx context.Context, f Filter) ([]Transition, error)
	EffectEvents(ctx context.Context, f Filter) ([]EffectEvent, error)
}
