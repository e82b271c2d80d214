// Package recency tracks the order in which browser windows were focused.
package recency

import "github.com/mj1618/tabshuttle/internal/model"

// Set is an ordered, duplicate-free sequence of window ids, least recently
// focused first. The zero value is an empty set. Set is not safe for
// concurrent use; Tracker serializes access to its own.
type Set struct {
	ids []model.WindowID
}

// Len returns the number of windows in the set.
func (s *Set) Len() int { return len(s.ids) }

// Contains reports whether id is in the set.
func (s *Set) Contains(id model.WindowID) bool {
	return s.indexOf(id) >= 0
}

// Push appends id if it is not already present.
func (s *Set) Push(id model.WindowID) {
	if !s.Contains(id) {
		s.ids = append(s.ids, id)
	}
}

// MoveToBack makes id the most recent entry, inserting it if absent.
func (s *Set) MoveToBack(id model.WindowID) {
	s.Remove(id)
	s.ids = append(s.ids, id)
}

// Remove deletes id wherever it is. Relative order of the rest is kept.
func (s *Set) Remove(id model.WindowID) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	return true
}

// Front returns the least recent entry, or WindowIDNone when empty.
func (s *Set) Front() model.WindowID { return s.At(0) }

// Back returns the most recent entry, or WindowIDNone when empty.
func (s *Set) Back() model.WindowID { return s.At(len(s.ids) - 1) }

// At returns the entry at position i, or WindowIDNone when out of range.
// Negative positions count from the back: At(-1) is Back.
func (s *Set) At(i int) model.WindowID {
	if i < 0 {
		i += len(s.ids)
	}
	if i < 0 || i >= len(s.ids) {
		return model.WindowIDNone
	}
	return s.ids[i]
}

// Slice returns a copy of the order, least recent first.
func (s *Set) Slice() []model.WindowID {
	out := make([]model.WindowID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Set) indexOf(id model.WindowID) int {
	for i, x := range s.ids {
		if x == id {
			return i
		}
	}
	return -1
}
