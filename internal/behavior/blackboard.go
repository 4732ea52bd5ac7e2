package behavior

import (
	"slices"
	"sync"
)

// MaxBlackboardEntries bounds the keys a Blackboard holds.
const MaxBlackboardEntries = 50

// Well-known blackboard keys.
const (
	KeyAction         = "action"          // decision.Action performed this tick
	KeyTargetLocation = "target_location" // string read by MoveToTarget
	KeyTargetActor    = "target_actor"    // int id of the last interaction partner
)

// Blackboard is an actor's scratch space, kept across ticks. It is
// bounded to MaxBlackboardEntries keys.
//
// The zero value is ready to use.
type Blackboard struct {
	mu   sync.RWMutex
	data map[string]any
}

// Get returns the value for key, or nil.
func (b *Blackboard) Get(key string) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data[key]
}

// Lookup returns the value for key and whether it was present.
func (b *Blackboard) Lookup(key string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	return v, ok
}

// Set stores value under key. It returns false, leaving the blackboard
// unchanged, when key is new and the blackboard is full.
func (b *Blackboard) Set(key string, value any) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		b.data = make(map[string]any)
	}
	if _, ok := b.data[key]; !ok && len(b.data) >= MaxBlackboardEntries {
		return false
	}
	b.data[key] = value
	return true
}

func (b *Blackboard) Has(key string) bool {
	_, ok := b.Lookup(key)
	return ok
}

func (b *Blackboard) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
}

// Keys returns the keys in sorted order.
func (b *Blackboard) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (b *Blackboard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

func (b *Blackboard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.data)
}

// Snapshot returns a shallow copy of the entries.
func (b *Blackboard) Snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]any, len(b.data))
	for k, v := range b.data {
		out[k] = v
	}
	return out
}

// String returns the value for key if it is a string.
func (b *Blackboard) String(key string) (string, bool) {
	s, ok := b.Get(key).(string)
	return s, ok
}
