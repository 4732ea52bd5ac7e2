// Package ring provides a fixed-capacity circular buffer that overwrites its
// oldest entry once full.
package ring

import "slices"

// Ring is a bounded FIFO. The zero value is unusable; use New.
//
// Ring is not safe for concurrent use.
type Ring[T any] struct {
	buf   []T
	head  int // next write position
	tail  int // oldest live entry
	count int
	full  bool
}

// New returns a ring holding at most capacity entries. A capacity below one
// is treated as one.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Push appends v. If the ring was full, the oldest entry is overwritten and
// returned with evicted set to true.
func (r *Ring[T]) Push(v T) (old T, evicted bool) {
	if r.full {
		old, evicted = r.buf[r.head], true
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	if r.full {
		r.tail = r.head
	} else {
		r.count++
		if r.count == len(r.buf) {
			r.full = true
		}
	}
	return old, evicted
}

// Len reports the number of live entries.
func (r *Ring[T]) Len() int {
	if r.full {
		return len(r.buf)
	}
	return r.count
}

// Cap reports the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Full reports whether the next Push will evict.
func (r *Ring[T]) Full() bool { return r.full }

// At returns the i-th live entry in chronological order, 0 being the oldest.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.Len() {
		panic("ring: index out of range")
	}
	return r.buf[(r.tail+i)%len(r.buf)]
}

// Recent returns up to n entries, most recent first.
func (r *Ring[T]) Recent(n int) []T {
	size := r.Len()
	if n > size {
		n = size
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.buf[(r.head-1-i+2*len(r.buf))%len(r.buf)])
	}
	return out
}

// Each calls fn for every live entry oldest first, stopping when fn returns
// false.
func (r *Ring[T]) Each(fn func(T) bool) {
	size := r.Len()
	for i := 0; i < size; i++ {
		if !fn(r.buf[(r.tail+i)%len(r.buf)]) {
			return
		}
	}
}

// Filter returns every live entry matching keep, oldest first.
func (r *Ring[T]) Filter(keep func(T) bool) []T {
	var out []T
	r.Each(func(v T) bool {
		if keep(v) {
			out = append(out, v)
		}
		return true
	})
	return out
}

// Latest returns the newest limit entries matching keep, oldest first. A
// limit <= 0 returns every match.
func (r *Ring[T]) Latest(limit int, keep func(T) bool) []T {
	if limit <= 0 {
		return r.Filter(keep)
	}
	var out []T
	for i := r.Len() - 1; i >= 0 && len(out) < limit; i-- {
		if v := r.At(i); keep(v) {
			out = append(out, v)
		}
	}
	slices.Reverse(out)
	return out
}

// Clear drops all entries and resets the indices. Capacity is kept.
func (r *Ring[T]) Clear() {
	clear(r.buf)
	r.head, r.tail, r.count, r.full = 0, 0, 0, false
}
