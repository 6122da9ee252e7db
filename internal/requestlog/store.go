// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package requestlog

import (
	"context"
)

// NewStore creates a Store that retains at most capacity entries. A
// non-positive capacity falls back to DefaultCapacity.
func NewStore(
	capacity int,
) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Store{
		entries:  make([]Entry, capacity),
		head:     -1,
		capacity: capacity,
		metrics:  newInstruments(),
	}
}

// NextID returns the next identifier. Values are strictly increasing and
// never reused, independent of eviction.
func (s *Store) NextID() int64 {
	return s.counter.Add(1)
}

// Append inserts entry as the newest element, evicting the oldest while the
// store is over capacity. An entry without an ID gets one inside the critical
// section, so the stored order always follows ID order. A caller supplied ID
// advances the counter so NextID never returns it again.
func (s *Store) Append(
	entry Entry,
) Entry {
	s.mu.Lock()
	if entry.ID == 0 {
		entry.ID = s.NextID()
	} else {
		s.advance(entry.ID)
	}

	s.head = (s.head + 1) % s.capacity
	s.entries[s.head] = entry

	evicted := 0
	if s.size < s.capacity {
		s.size++
	} else {
		evicted = 1
	}
	s.mu.Unlock()

	s.metrics.entries.Add(context.Background(), 1)
	if evicted > 0 {
		s.metrics.evictions.Add(context.Background(), int64(evicted))
	}

	return entry
}

// List returns up to limit entries, newest first. NoLimit (or any negative
// value) returns every retained entry. The result is a copy.
func (s *Store) List(
	limit int,
) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.size
	if limit >= 0 && limit < n {
		n = limit
	}

	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		idx := (s.head - i + s.capacity) % s.capacity
		out[i] = s.entries[idx]
	}

	return out
}

// advance raises the counter to at least id.
func (s *Store) advance(
	id int64,
) {
	for {
		current := s.counter.Load()
		if current >= id || s.counter.CompareAndSwap(current, id) {
			return
		}
	}
}

// Len returns the number of retained entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.size
}

// Capacity returns the maximum number of retained entries.
func (s *Store) Capacity() int {
	return s.capacity
}

// LastID returns the most recently issued identifier, or 0 if none.
func (s *Store) LastID() int64 {
	return s.counter.Load()
}
