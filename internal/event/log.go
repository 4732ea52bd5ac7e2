package event

import (
	"slices"
	"sync"

	"github.com/joeycumines/lifesim/internal/ring"
)

// DefaultLogCapacity is the number of events a Log retains.
const DefaultLogCapacity = 10000

// Stats are running totals, including evicted events.
type Stats struct {
	Total  int           `json:"total_logged"`
	ByType [NumTypes]int `json:"by_type"`
}

// Log is a bounded history of events. Entries are copies without payloads.
//
// Log is safe for concurrent use.
type Log struct {
	mu    sync.RWMutex
	buf   *ring.Ring[Event]
	stats Stats
}

// NewLog returns a log holding at most capacity events; non-positive means
// DefaultLogCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &Log{buf: ring.New[Event](capacity)}
}

// Append stores a payload-free copy of e, evicting the oldest entry when
// full. Counters always advance.
func (l *Log) Append(e *Event) {
	if e == nil {
		return
	}
	c := *e
	c.Payload = nil
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Push(c)
	l.stats.Total++
	if c.Type.Valid() {
		l.stats.ByType[c.Type]++
	}
}

// Attach subscribes the log to every event on b.
func (l *Log) Attach(b *Bus) (int, bool) { return b.Subscribe(l.Append, AllTypes) }

// Len is the number of live entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.Len()
}

func (l *Log) Cap() int { return l.buf.Cap() }

// Recent returns up to n events, newest first.
func (l *Log) Recent(n int) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.Recent(n)
}

// filter keeps the newest limit matches, returned oldest first.
func (l *Log) filter(limit int, keep func(*Event) bool) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.Latest(limit, func(e Event) bool { return keep(&e) })
}

// ByType returns events of type t oldest first. A limit > 0 keeps only the
// latest limit of them.
func (l *Log) ByType(t Type, limit int) []Event {
	return l.filter(limit, func(e *Event) bool { return e.Type == t })
}

// ByEntity returns events whose source or target is id, oldest first.
func (l *Log) ByEntity(id, limit int) []Event {
	return l.filter(limit, func(e *Event) bool { return e.Involves(id) })
}

// ByDay returns events on the given in-game day, oldest first.
func (l *Log) ByDay(day, limit int) []Event {
	return l.filter(limit, func(e *Event) bool { return e.Day == day })
}

// RecentIDsFor returns the ids of the latest n events involving id, oldest
// first.
func (l *Log) RecentIDsFor(id, n int) []uint64 {
	if n <= 0 {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	var ids []uint64
	for i := l.buf.Len() - 1; i >= 0 && len(ids) < n; i-- {
		if e := l.buf.At(i); e.Involves(id) {
			ids = append(ids, e.ID)
		}
	}
	slices.Reverse(ids)
	return ids
}

// Stats returns the running totals.
func (l *Log) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

// Clear drops every entry and zeroes the counters.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Clear()
	l.stats = Stats{}
}

// Dump is the serialized form of a Log.
type Dump struct {
	Capacity int     `json:"capacity"`
	Stats    Stats   `json:"stats"`
	Events   []Event `json:"events"`
}

// Dump captures the live entries oldest first, with the totals.
func (l *Log) Dump() Dump {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d := Dump{Capacity: l.buf.Cap(), Stats: l.stats, Events: make([]Event, 0, l.buf.Len())}
	l.buf.Each(func(e Event) bool {
		d.Events = append(d.Events, e)
		return true
	})
	return d
}

// Restore replaces the contents with d. Entries beyond capacity keep only the
// newest.
func (l *Log) Restore(d Dump) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Clear()
	for _, e := range d.Events {
		e.Payload = nil
		l.buf.Push(e)
	}
	l.stats = d.Stats
}

// MaxID returns the largest event id retained, or 0.
func (l *Log) MaxID() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var id uint64
	l.buf.Each(func(e Event) bool {
		id = max(id, e.ID)
		return true
	})
	return id
}
