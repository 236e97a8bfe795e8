package entity

import "strings"

// AmenitySet is an insertion-ordered set of amenity strings.
// Values are trimmed before insertion; empty values are ignored.
type AmenitySet struct {
	items []string
	index map[string]struct{}
}

func NewAmenitySet(values ...string) *AmenitySet {
	s := &AmenitySet{index: make(map[string]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts value and reports whether it was not already present.
func (s *AmenitySet) Add(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if _, ok := s.index[value]; ok {
		return false
	}
	s.index[value] = struct{}{}
	s.items = append(s.items, value)
	return true
}

func (s *AmenitySet) Contains(value string) bool {
	_, ok := s.index[strings.TrimSpace(value)]
	return ok
}

func (s *AmenitySet) Len() int {
	return len(s.items)
}

// Items returns a copy of the members in insertion order.
func (s *AmenitySet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
