// Package journal saves and restores the decision and event logs as a
// single JSON document, so a run can be inspected or resumed later.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/event"
	"github.com/joeycumines/lifesim/internal/storage"
	"github.com/joeycumines/lifesim/internal/world"
)

// Version is the journal format version written by Save.
const Version = 1

var ErrVersion = errors.New("journal: unsupported version")

// ErrLocked is returned when another process is saving or loading the same
// journal.
var ErrLocked = storage.ErrLocked

// Journal is the saved state of a run.
type Journal struct {
	Version   int           `json:"version"`
	Run       uuid.UUID     `json:"run_id"`
	SavedAt   time.Time     `json:"saved_at"`
	Clock     world.Clock   `json:"clock"`
	Weather   world.Weather `json:"weather"`
	Events    event.Dump    `json:"events"`
	Decisions decision.Dump `json:"decisions"`
}

// Capture copies the current contents of both logs.
func Capture(run uuid.UUID, w *world.State, events *event.Log, decisions *decision.Log) *Journal {
	j := &Journal{
		Version:   Version,
		Run:       run,
		SavedAt:   time.Now().UTC(),
		Events:    events.Dump(),
		Decisions: decisions.Dump(),
	}
	if w != nil {
		j.Clock, j.Weather = w.Clock, w.Weather
	}
	return j
}

// Restore loads the journal into the given logs and world. When bus is
// non-nil its ids continue after the newest restored event.
func (j *Journal) Restore(w *world.State, events *event.Log, decisions *decision.Log, bus *event.Bus) {
	if w != nil {
		w.Clock, w.Weather = j.Clock, j.Weather
	}
	events.Restore(j.Events)
	decisions.Restore(j.Decisions)
	if bus != nil {
		bus.Resume(events.MaxID() + 1)
	}
}

// Save writes j to path atomically while holding path's lock file.
func Save(path string, j *Journal) error {
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("journal: encode: %w", err)
	}
	unlock, err := storage.Lock(path)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	defer unlock()
	return storage.WriteFileAtomic(path, data, 0o644)
}

// Load reads the journal at path while holding its lock file.
func Load(path string) (*Journal, error) {
	unlock, err := storage.Lock(path)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	defer unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("journal: read: %w", err)
	}
	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("journal: decode %s: %w", path, err)
	}
	if j.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, j.Version)
	}
	return &j, nil
}
