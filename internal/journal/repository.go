package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

// SQLiteRepository stores the journal in the scene_transitions and
// effect_events tables.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository over a migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// RecordTransition inserts t and sets its ID.
func (r *SQLiteRepository) RecordTransition(ctx context.Context, t *Transition) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO scene_transitions (run_id, generation, from_scene, to_scene, cause, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.RunID, int64(t.Generation), t.From.String(), t.To.String(), string(t.Cause),
		t.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting transition: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading transition id: %w", err)
	}
	return nil
}

// RecordEffect inserts e and sets its ID.
func (r *SQLiteRepository) RecordEffect(ctx context.Context, e *EffectEvent) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO effect_events (run_id, effect, population, occurred_at) VALUES (?, ?, ?, ?)`,
		e.RunID, e.Effect, e.Population, e.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting effect event: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading effect event id: %w", err)
	}
	return nil
}

// whereRun builds the optional run filter.
func whereRun(f Filter) (string, []any) {
	if f.RunID == "" {
		return "", nil
	}
	return " WHERE run_id = ?", []any{f.RunID}
}

// Transitions lists transitions oldest first. With no RunID filter the most
// recent Limit entries are returned.
func (r *SQLiteRepository) Transitions(ctx context.Context, f Filter) ([]Transition, error) {
	where, args := whereRun(f)
	query := `SELECT id, run_id, generation, from_scene, to_scene, cause, occurred_at FROM (
		SELECT * FROM scene_transitions` + where + ` ORDER BY id DESC LIMIT ?
	) ORDER BY id`
	args = append(args, f.limit())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transitions: %w", err)
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var (
			t        Transition
			gen      int64
			from, to string
			cause    string
			at       string
		)
		if err := rows.Scan(&t.ID, &t.RunID, &gen, &from, &to, &cause, &at); err != nil {
			return nil, fmt.Errorf("scanning transition: %w", err)
		}
		t.Generation = uint64(gen)
		if t.From, err = scene.ParseScene(from); err != nil {
			return nil, err
		}
		if t.To, err = scene.ParseScene(to); err != nil {
			return nil, err
		}
		t.Cause = scene.Cause(cause)
		if t.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parsing transition time %q: %w", at, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transitions: %w", err)
	}
	return out, nil
}

// EffectEvents lists effect events oldest first.
func (r *SQLiteRepository) EffectEvents(ctx context.Context, f Filter) ([]EffectEvent, error) {
	where, args := whereRun(f)
	var b strings.Builder
	b.WriteString(`SELECT id, run_id, effect, population, occurred_at FROM (SELECT * FROM effect_events`)
	b.WriteString(where)
	b.WriteString(` ORDER BY id DESC LIMIT ?) ORDER BY id`)
	args = append(args, f.limit())

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying effect events: %w", err)
	}
	defer rows.Close()

	var out []EffectEvent
	for rows.Next() {
		var (
			e  EffectEvent
			at string
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Effect, &e.Population, &at); err != nil {
			return nil, fmt.Errorf("scanning effect event: %w", err)
		}
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parsing effect event time %q: %w", at, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating effect events: %w", err)
	}
	return out, nil
}
