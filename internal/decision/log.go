package decision

import (
	"sync"

	"github.com/joeycumines/lifesim/internal/ring"
)

// DefaultLogCapacity is the number of records a Log retains.
const DefaultLogCapacity = 1000

// Stats are running totals, including evicted records.
type Stats struct {
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	ByAction  [NumActions]int `json:"by_action"`
}

// Log is a bounded history of decisions that assigns record ids.
//
// Log is safe for concurrent use.
type Log struct {
	mu     sync.RWMutex
	buf    *ring.Ring[*Record]
	stats  Stats
	nextID uint64
}

// NewLog returns a log holding at most capacity records; non-positive means
// DefaultLogCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &Log{buf: ring.New[*Record](capacity), nextID: 1}
}

// Append takes ownership of r, assigns its id and stores it, evicting the
// oldest record when full.
func (l *Log) Append(r *Record) uint64 {
	if r == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	r.ID = l.nextID
	l.nextID++
	l.buf.Push(r)
	l.count(r)
	return r.ID
}

func (l *Log) count(r *Record) {
	l.stats.Total++
	if r.Action.Valid() {
		l.stats.ByAction[r.Action]++
	}
	l.countOutcome(r)
}

func (l *Log) countOutcome(r *Record) {
	if !r.Outcome.Executed {
		return
	}
	if r.Outcome.Succeeded {
		l.stats.Succeeded++
	} else {
		l.stats.Failed++
	}
}

// Complete sets the outcome of the live record with the given id. It reports
// false if the record was evicted or already has an outcome.
func (l *Log) Complete(id uint64, succeeded bool, actualUtility float64, description string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	var found *Record
	l.buf.Each(func(r *Record) bool {
		if r.ID == id {
			found = r
			return false
		}
		return true
	})
	if found == nil || !found.SetOutcome(succeeded, actualUtility, description) {
		return false
	}
	l.countOutcome(found)
	return true
}

// Get returns a copy of the live record with the given id.
func (l *Log) Get(id uint64) (*Record, bool) {
	res := l.filter(1, func(r *Record) bool { return r.ID == id })
	if len(res) == 0 {
		return nil, false
	}
	return res[0], true
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.Len()
}

func (l *Log) Cap() int { return l.buf.Cap() }

// Recent returns copies of up to n records, newest first.
func (l *Log) Recent(n int) []*Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	recs := l.buf.Recent(n)
	for i, r := range recs {
		recs[i] = r.Clone()
	}
	return recs
}

// filter keeps the newest limit matches, returned oldest first.
func (l *Log) filter(limit int, keep func(*Record) bool) []*Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := l.buf.Latest(limit, keep)
	for i, r := range out {
		out[i] = r.Clone()
	}
	return out
}

// ByActor returns records made by actor id oldest first. A limit > 0 keeps
// only the latest limit of them.
func (l *Log) ByActor(id, limit int) []*Record {
	return l.filter(limit, func(r *Record) bool { return r.ActorID == id })
}

// ByDay returns records made on the given in-game day, oldest first.
func (l *Log) ByDay(day, limit int) []*Record {
	return l.filter(limit, func(r *Record) bool { return r.Day == day })
}

// ByAction returns records whose chosen action is a, oldest first.
func (l *Log) ByAction(a Action, limit int) []*Record {
	return l.filter(limit, func(r *Record) bool { return r.Action == a })
}

// Stats returns the running totals.
func (l *Log) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

// NextID is the id the next appended record will receive.
func (l *Log) NextID() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nextID
}

// Clear drops every record and zeroes the counters. Ids are never reused.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Clear()
	l.stats = Stats{}
}

// Dump is the serialized form of a Log.
type Dump struct {
	Capacity int       `json:"capacity"`
	NextID   uint64    `json:"next_id"`
	Stats    Stats     `json:"stats"`
	Records  []*Record `json:"records"`
}

// Dump captures copies of the live records oldest first.
func (l *Log) Dump() Dump {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d := Dump{Capacity: l.buf.Cap(), NextID: l.nextID, Stats: l.stats, Records: make([]*Record, 0, l.buf.Len())}
	l.buf.Each(func(r *Record) bool {
		d.Records = append(d.Records, r.Clone())
		return true
	})
	return d
}

// Restore replaces the contents with d, keeping ids as stored. The id
// sequence only moves forward.
func (l *Log) Restore(d Dump) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Clear()
	for _, r := range d.Records {
		if r != nil {
			l.buf.Push(r.Clone())
			l.nextID = max(l.nextID, r.ID+1)
		}
	}
	l.nextID = max(l.nextID, d.NextID)
	l.stats = d.Stats
}
