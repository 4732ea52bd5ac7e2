// Package decision captures what an actor knew when it decided, what it
// could have done, what it chose and how that turned out.
package decision

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joeycumines/lifesim/internal/world"
)

// MaxOptions is the most options a Record keeps.
const MaxOptions = 10

// NoTarget marks an option without a target actor.
const NoTarget = -1

var (
	ErrNoSnapshot       = errors.New("decision: no snapshot")
	ErrNoOptions        = errors.New("decision: no options")
	ErrChoiceOutOfRange = errors.New("decision: chosen index out of range")
)

// Option is one candidate action.
type Option struct {
	Action        Action  `json:"action"`
	Description   string  `json:"description"`
	Utility       float64 `json:"utility"`
	Cost          float64 `json:"cost"`
	SuccessChance float64 `json:"success_chance"`
	Target        int     `json:"target_entity_id"`
	TargetX       float64 `json:"target_x,omitempty"`
	TargetY       float64 `json:"target_y,omitempty"`
}

// Outcome is filled in once, after the chosen action ran.
type Outcome struct {
	Executed      bool    `json:"executed"`
	Succeeded     bool    `json:"succeeded"`
	ActualUtility float64 `json:"actual_utility"`
	Description   string  `json:"description,omitempty"`
}

// Record is a logged decision. Apart from SetOutcome it does not change
// after NewRecord; the Log hands out copies.
type Record struct {
	ID        uint64          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Day       int             `json:"game_day"`
	TimeOfDay world.TimeOfDay `json:"game_time"`
	ActorID   int             `json:"entity_id"`
	ActorName string          `json:"entity_name"`
	Context   *Snapshot       `json:"context"`
	Options   []Option        `json:"options"`
	Chosen    int             `json:"chosen_index"`
	Action    Action          `json:"chosen_action"`
	Reasoning string          `json:"reasoning"`
	Outcome   Outcome         `json:"outcome"`
}

// NewRecord copies snap and options (at most MaxOptions) into a record.
// chosen must index the kept options.
func NewRecord(snap *Snapshot, options []Option, chosen int, reasoning string) (*Record, error) {
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	if len(options) == 0 {
		return nil, ErrNoOptions
	}
	options = options[:min(len(options), MaxOptions)]
	if chosen < 0 || chosen >= len(options) {
		return nil, fmt.Errorf("%w: %d of %d", ErrChoiceOutOfRange, chosen, len(options))
	}
	return &Record{
		Timestamp: time.Now(),
		Day:       snap.Day,
		TimeOfDay: snap.TimeOfDay,
		ActorID:   snap.ActorID,
		ActorName: snap.ActorName,
		Context:   snap.Clone(),
		Options:   slices.Clone(options),
		Chosen:    chosen,
		Action:    options[chosen].Action,
		Reasoning: reasoning,
	}, nil
}

// ChosenOption returns the option that was picked.
func (r *Record) ChosenOption() Option { return r.Options[r.Chosen] }

// SetOutcome records the result of carrying out the decision. It reports
// false if an outcome was already set.
func (r *Record) SetOutcome(succeeded bool, actualUtility float64, description string) bool {
	if r.Outcome.Executed {
		return false
	}
	r.Outcome = Outcome{
		Executed:      true,
		Succeeded:     succeeded,
		ActualUtility: actualUtility,
		Description:   description,
	}
	return true
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := *r
	c.Context = r.Context.Clone()
	c.Options = slices.Clone(r.Options)
	return &c
}

func (r *Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Decision #%d: %s (day %d, %s) chose %s", r.ID, r.ActorName, r.Day, r.TimeOfDay, r.Action)
	if r.Outcome.Executed {
		result := "failed"
		if r.Outcome.Succeeded {
			result = "succeeded"
		}
		fmt.Fprintf(&b, ", %s (utility %.1f)", result, r.Outcome.ActualUtility)
	}
	return b.String()
}
