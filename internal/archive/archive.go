// Package archive persists decisions and events to SQLite so they outlive
// the in-memory logs. Rows are keyed by simulation run.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/event"
	_ "modernc.org/sqlite"
)

var ErrNoRun = errors.New("archive: no run started")

// Archive is a SQLite database of runs, decisions and events.
type Archive struct {
	db     *sqlx.DB
	logger *slog.Logger
	run    uuid.UUID
}

// Open opens or creates the database at path. A nil logger uses
// slog.Default.
func Open(path string, logger *slog.Logger) (*Archive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("archive: create directory: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	a := &Archive{db: db, logger: logger}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: migrate: %w", err)
	}
	return a, nil
}

func (a *Archive) Close() error { return a.db.Close() }

func (a *Archive) migrate() error {
	_, err := a.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		actors INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		type TEXT NOT NULL,
		subtype TEXT NOT NULL,
		day INTEGER NOT NULL,
		source INTEGER NOT NULL,
		target INTEGER NOT NULL,
		data TEXT NOT NULL,
		UNIQUE (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS decisions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		day INTEGER NOT NULL,
		actor_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		executed INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		data TEXT NOT NULL,
		UNIQUE (run_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_events_day ON events(run_id, day);
	CREATE INDEX IF NOT EXISTS idx_events_entity ON events(source, target);
	CREATE INDEX IF NOT EXISTS idx_decisions_actor ON decisions(run_id, actor_id);
	`)
	return err
}

// StartRun registers run and makes it the target of later saves.
func (a *Archive) StartRun(run uuid.UUID, actors int) error {
	_, err := a.db.Exec(`INSERT OR IGNORE INTO runs (id, started_at, actors) VALUES (?, ?, ?)`,
		run.String(), time.Now().UTC(), actors)
	if err != nil {
		return fmt.Errorf("archive: start run: %w", err)
	}
	a.run = run
	return nil
}

// Run is the run saves currently go to.
func (a *Archive) Run() uuid.UUID { return a.run }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SaveEvent stores e under the current run. Saving an id twice is a no-op.
func (a *Archive) SaveEvent(e *event.Event) error {
	if a.run == uuid.Nil {
		return ErrNoRun
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("archive: encode event %d: %w", e.ID, err)
	}
	_, err = a.db.Exec(`INSERT OR IGNORE INTO events
		(run_id, id, type, subtype, day, source, target, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.run.String(), e.ID, e.Type.String(), e.Subtype.String(), e.Day, e.Source, e.Target, string(data),
	)
	if err != nil {
		return fmt.Errorf("archive: insert event %d: %w", e.ID, err)
	}
	return nil
}

const upsertDecision = `INSERT INTO decisions
	(run_id, id, day, actor_id, action, executed, succeeded, data)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (run_id, id) DO UPDATE SET
		executed = excluded.executed,
		succeeded = excluded.succeeded,
		data = excluded.data`

// SaveDecision stores r under the current run, replacing an earlier copy so
// a later outcome is kept.
func (a *Archive) SaveDecision(r *decision.Record) error {
	if a.run == uuid.Nil {
		return ErrNoRun
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("archive: encode decision %d: %w", r.ID, err)
	}
	_, err = a.db.Exec(upsertDecision,
		a.run.String(), r.ID, r.Day, r.ActorID, r.Action.String(),
		boolInt(r.Outcome.Executed), boolInt(r.Outcome.Succeeded), string(data),
	)
	if err != nil {
		return fmt.Errorf("archive: insert decision %d: %w", r.ID, err)
	}
	return nil
}

// SaveDecisions stores records in one transaction.
func (a *Archive) SaveDecisions(records []*decision.Record) error {
	if a.run == uuid.Nil {
		return ErrNoRun
	}
	tx, err := a.db.Beginx()
	if err != nil {
		return fmt.Errorf("archive: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(upsertDecision)
	if err != nil {
		return fmt.Errorf("archive: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("archive: encode decision %d: %w", r.ID, err)
		}
		if _, err := stmt.Exec(a.run.String(), r.ID, r.Day, r.ActorID, r.Action.String(),
			boolInt(r.Outcome.Executed), boolInt(r.Outcome.Succeeded), string(data)); err != nil {
			return fmt.Errorf("archive: insert decision %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Attach archives every event published on b. Failures are logged.
func (a *Archive) Attach(b *event.Bus) (int, bool) {
	return b.Subscribe(func(e *event.Event) {
		if err := a.SaveEvent(e); err != nil {
			a.logger.Error("archive event", "id", e.ID, "error", err)
		}
	}, event.AllTypes)
}

// EventFilter narrows Events. Zero fields match everything.
type EventFilter struct {
	Run    uuid.UUID
	Day    int
	Entity int
	Type   *event.Type
	Limit  int
}

// DecisionFilter narrows Decisions. Zero fields match everything.
type DecisionFilter struct {
	Run    uuid.UUID
	Day    int
	Actor  int
	Action *decision.Action
	Limit  int
}

type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// query returns the data column of the latest matching rows, oldest first.
func (a *Archive) query(table string, w where, limit int) ([]string, error) {
	q := "SELECT data FROM " + table
	if len(w.clauses) > 0 {
		q += " WHERE " + strings.Join(w.clauses, " AND ")
	}
	q += " ORDER BY seq DESC"
	if limit > 0 {
		q += " LIMIT ?"
		w.args = append(w.args, limit)
	}
	var rows []string
	if err := a.db.Select(&rows, q, w.args...); err != nil {
		return nil, fmt.Errorf("archive: query %s: %w", table, err)
	}
	slices.Reverse(rows)
	return rows, nil
}

// Events returns matching events oldest first.
func (a *Archive) Events(f EventFilter) ([]event.Event, error) {
	var w where
	if f.Run != uuid.Nil {
		w.add("run_id = ?", f.Run.String())
	}
	if f.Day > 0 {
		w.add("day = ?", f.Day)
	}
	if f.Entity > 0 {
		w.add("(source = ? OR target = ?)", f.Entity, f.Entity)
	}
	if f.Type != nil {
		w.add("type = ?", f.Type.String())
	}
	rows, err := a.query("events", w, f.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]event.Event, len(rows))
	for i, data := range rows {
		if err := json.Unmarshal([]byte(data), &out[i]); err != nil {
			return nil, fmt.Errorf("archive: decode event: %w", err)
		}
	}
	return out, nil
}

// Decisions returns matching decisions oldest first.
func (a *Archive) Decisions(f DecisionFilter) ([]*decision.Record, error) {
	var w where
	if f.Run != uuid.Nil {
		w.add("run_id = ?", f.Run.String())
	}
	if f.Day > 0 {
		w.add("day = ?", f.Day)
	}
	if f.Actor > 0 {
		w.add("actor_id = ?", f.Actor)
	}
	if f.Action != nil {
		w.add("action = ?", f.Action.String())
	}
	rows, err := a.query("decisions", w, f.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]*decision.Record, len(rows))
	for i, data := range rows {
		out[i] = new(decision.Record)
		if err := json.Unmarshal([]byte(data), out[i]); err != nil {
			return nil, fmt.Errorf("archive: decode decision: %w", err)
		}
	}
	return out, nil
}

// RunInfo summarizes an archived run.
type RunInfo struct {
	ID        string    `db:"id" json:"id"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
	Actors    int       `db:"actors" json:"actors"`
	Decisions int       `db:"decisions" json:"decisions"`
	Succeeded int       `db:"succeeded" json:"succeeded"`
	Events    int       `db:"events" json:"events"`
}

// Runs lists archived runs, most recent first.
func (a *Archive) Runs() ([]RunInfo, error) {
	var runs []RunInfo
	err := a.db.Select(&runs, `
		SELECT r.id, r.started_at, r.actors,
			(SELECT COUNT(*) FROM decisions d WHERE d.run_id = r.id) AS decisions,
			(SELECT COUNT(*) FROM decisions d WHERE d.run_id = r.id AND d.succeeded = 1) AS succeeded,
			(SELECT COUNT(*) FROM events e WHERE e.run_id = r.id) AS events
		FROM runs r
		ORDER BY r.started_at DESC, r.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("archive: list runs: %w", err)
	}
	return runs, nil
}
