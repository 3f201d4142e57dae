// Package wishlist implements the per-session set of saved product ids.
package wishlist

import "slices"

// EventKind identifies a wishlist change.
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventRemoved EventKind = "removed"
)

// Event describes a completed toggle.
type Event struct {
	Kind      EventKind
	ProductID string
}

// Set is an insertion-ordered set of product ids. It has no relation to the
// cart beyond sharing the id space. Not safe for concurrent use.
type Set struct {
	ids    []string
	notify func(Event)
}

// New returns an empty set. notify may be nil.
func New(notify func(Event)) *Set {
	if notify == nil {
		notify = func(Event) {}
	}
	return &Set{notify: notify}
}

// Toggle adds id when absent and removes it when present. It reports whether
// id is in the set afterwards.
func (s *Set) Toggle(id string) bool {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		s.notify(Event{Kind: EventRemoved, ProductID: id})
		return false
	}
	s.ids = append(s.ids, id)
	s.notify(Event{Kind: EventAdded, ProductID: id})
	return true
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id string) bool { return slices.Contains(s.ids, id) }

// IDs returns the ids in insertion order.
func (s *Set) IDs() []string { return slices.Clone(s.ids) }

// Len returns the number of ids.
func (s *Set) Len() int { return len(s.ids) }
