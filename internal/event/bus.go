package event

import "log/slog"

// MaxSubscribers is the number of subscription slots on a Bus.
const MaxSubscribers = 100

// Handler receives published events. The event must not be retained past
// the call.
type Handler func(*Event)

type subscriber struct {
	handler Handler
	filter  Type
	active  bool
}

// Bus is a synchronous publish/subscribe fan-out with fixed slots.
//
// Bus is not safe for concurrent use.
type Bus struct {
	slots  [MaxSubscribers]subscriber
	active int
	nextID uint64
	logger *slog.Logger
}

// NewBus returns an empty bus. A nil logger uses slog.Default.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{nextID: 1, logger: logger}
}

// Subscribe registers h for events of type filter, or every event when filter
// is AllTypes. It takes the lowest free slot and returns its id, or false when
// h is nil or every slot is taken.
func (b *Bus) Subscribe(h Handler, filter Type) (int, bool) {
	if h == nil || (filter != AllTypes && !filter.Valid()) {
		return -1, false
	}
	for i := range b.slots {
		if !b.slots[i].active {
			b.slots[i] = subscriber{handler: h, filter: filter, active: true}
			b.active++
			return i, true
		}
	}
	b.logger.Warn("event bus full", "max", MaxSubscribers)
	return -1, false
}

// Unsubscribe frees slot id for reuse.
func (b *Bus) Unsubscribe(id int) bool {
	if id < 0 || id >= MaxSubscribers || !b.slots[id].active {
		return false
	}
	b.slots[id] = subscriber{}
	b.active--
	return true
}

// Publish assigns e the next id and hands it to every matching subscriber in
// slot order. The bus does not keep e.
func (b *Bus) Publish(e *Event) {
	if e == nil {
		return
	}
	e.ID = b.nextID
	b.nextID++
	b.logger.Debug("event published", "id", e.ID, "type", e.Type, "subtype", e.Subtype)
	for i := range b.slots {
		s := &b.slots[i]
		if s.active && (s.filter == AllTypes || s.filter == e.Type) {
			s.handler(e)
		}
	}
}

// Subscribers is the number of active slots.
func (b *Bus) Subscribers() int { return b.active }

// NextID is the id the next published event will receive.
func (b *Bus) NextID() uint64 { return b.nextID }

// Resume moves the id sequence forward to next, e.g. after restoring a log.
// It never moves backwards.
func (b *Bus) Resume(next uint64) {
	if next > b.nextID {
		b.nextID = next
	}
}

// Clear drops every subscriber. The id sequence continues.
func (b *Bus) Clear() {
	b.slots = [MaxSubscribers]subscriber{}
	b.active = 0
}
