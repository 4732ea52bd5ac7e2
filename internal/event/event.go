// Package event models world events, fans them out over an in-process bus,
// and retains the most recent ones in a bounded log.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/joeycumines/lifesim/internal/world"
)

// NoEntity marks an absent source or target.
const NoEntity = -1

// Event is a single world-state change. ID is assigned by Bus.Publish.
type Event struct {
	ID          uint64          `json:"id"`
	Type        Type            `json:"type"`
	Subtype     Subtype         `json:"subtype"`
	Timestamp   time.Time       `json:"timestamp"`
	Day         int             `json:"game_day"`
	TimeOfDay   world.TimeOfDay `json:"game_time"`
	Source      int             `json:"source_entity_id"`
	Target      int             `json:"target_entity_id"`
	Location    string          `json:"location"`
	Description string          `json:"description"`

	// Payload is optional detail owned by the publisher. Logs drop it.
	Payload Payload `json:"-"`
}

// New returns an event of the given subtype with no target.
func New(subtype Subtype, source int, description string) *Event {
	return &Event{
		Type:        subtype.Type(),
		Subtype:     subtype,
		Timestamp:   time.Now(),
		Source:      source,
		Target:      NoEntity,
		Description: description,
	}
}

// At stamps the in-game clock onto e.
func (e *Event) At(c world.Clock) *Event {
	e.Day = c.Day
	e.TimeOfDay = c.TimeOfDay
	return e
}

// Involves reports whether id is the source or target.
func (e *Event) Involves(id int) bool { return e.Source == id || e.Target == id }

func (e *Event) String() string {
	return fmt.Sprintf("[%d] %s/%s day %d %s: %s", e.ID, e.Type, e.Subtype, e.Day, e.TimeOfDay, e.Description)
}

func Trade(source, target int, item string, quantity, price int, accepted bool, reason string) *Event {
	sub, verb := TradeDeclined, "declined"
	if accepted {
		sub, verb = TradeAccepted, "accepted"
	}
	e := New(sub, source, fmt.Sprintf("Trade %s: %d %s for %d gold. %s", verb, quantity, item, price, reason))
	e.Target = target
	e.Payload = &TradeData{Item: item, Quantity: quantity, OfferedPrice: price, AskingPrice: price, Accepted: accepted, Reason: reason}
	return e
}

func RelationshipChange(source, target, before, after int, reason string) *Event {
	delta := after - before
	e := New(RelationshipChanged, source, fmt.Sprintf("Relationship changed: %d -> %d (%+d). %s", before, after, delta, reason))
	e.Target = target
	e.Payload = &RelationshipData{Before: before, After: after, Delta: delta, Reason: reason}
	return e
}

// CropAction describes an agricultural subtype acting on a plot.
func CropAction(subtype Subtype, crop string, x, y, source int) *Event {
	verb := "acted on"
	switch subtype {
	case CropPlanted:
		verb = "planted"
	case CropWatered:
		verb = "watered"
	case CropHarvested:
		verb = "harvested"
	case CropWithered:
		verb = "withered"
	}
	e := New(subtype, source, fmt.Sprintf("%s %s at (%d, %d)", verb, crop, x, y))
	e.Payload = &CropData{Crop: crop, PlotX: x, PlotY: y}
	return e
}

func WeatherChange(from, to world.Weather) *Event {
	e := New(WeatherChanged, NoEntity, fmt.Sprintf("Weather changed from %s to %s", from, to))
	e.Payload = &WeatherData{From: from, To: to}
	return e
}

// Currency records a gain (amount >= 0) or spend for entity.
func Currency(entity, amount int, reason string) *Event {
	sub, verb, abs := CurrencyGained, "Gained", amount
	if amount < 0 {
		sub, verb, abs = CurrencySpent, "Spent", -amount
	}
	e := New(sub, entity, fmt.Sprintf("%s %d gold. %s", verb, abs, reason))
	e.Payload = &CurrencyData{Amount: amount, Reason: reason}
	return e
}

// TimeAdvance is a Time event already stamped with c.
func TimeAdvance(subtype Subtype, c world.Clock) *Event {
	e := New(subtype, NoEntity, fmt.Sprintf("Time advanced to day %d, %s", c.Day, c.TimeOfDay))
	return e.At(c)
}

type eventJSON struct {
	*alias
	PayloadKind PayloadKind     `json:"payload_kind,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

type alias Event

func (e *Event) MarshalJSON() ([]byte, error) {
	out := eventJSON{alias: (*alias)(e)}
	if e.Payload != nil {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, fmt.Errorf("event %d payload: %w", e.ID, err)
		}
		out.PayloadKind, out.Payload = e.Payload.Kind(), b
	}
	return json.Marshal(out)
}

func (e *Event) UnmarshalJSON(b []byte) error {
	in := eventJSON{alias: (*alias)(e)}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	e.Payload = nil
	if in.PayloadKind == "" {
		return nil
	}
	p, err := newPayload(in.PayloadKind)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(in.Payload, p); err != nil {
		return fmt.Errorf("event %d payload: %w", e.ID, err)
	}
	e.Payload = p
	return nil
}
