// Package staff holds the live set of sounding pitches and serializes the
// note events that change it.
package staff

import (
	"sort"
	"sync"

	"grand-staff/notation"
)

// PitchSet is an ascending multiset of sounding pitches. Two note-ons for the
// same key give two entries; each note-off removes one.
type PitchSet struct {
	mu      sync.RWMutex
	pitches []notation.Pitch

	// lowest sounding pitch per clef, 0 when the staff is empty
	bottom [2]notation.Pitch
}

// NewPitchSet creates an empty set.
func NewPitchSet() *PitchSet {
	return &PitchSet{}
}

// Add inserts p, keeping the set sorted. Out-of-range pitches are ignored.
func (s *PitchSet) Add(p notation.Pitch) bool {
	if !p.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.pitches), func(i int) bool { return s.pitches[i] > p })
	s.pitches = append(s.pitches, 0)
	copy(s.pitches[i+1:], s.pitches[i:])
	s.pitches[i] = p

	clef := notation.ClefOf(p)
	if b := s.bottom[clef]; b == 0 || p < b {
		s.bottom[clef] = p
	}
	return true
}

// Remove deletes one occurrence of p. Returns false if p wasn't sounding.
func (s *PitchSet) Remove(p notation.Pitch) bool {
	if !p.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.pitches), func(i int) bool { return s.pitches[i] >= p })
	if i == len(s.pitches) || s.pitches[i] != p {
		return false
	}
	s.pitches = append(s.pitches[:i], s.pitches[i+1:]...)
	s.updateBottom()
	return true
}

// Clear releases every pitch.
func (s *PitchSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pitches = s.pitches[:0]
	s.bottom = [2]notation.Pitch{}
}

// Snapshot returns a sorted copy safe to hand to the layout functions.
func (s *PitchSet) Snapshot() []notation.Pitch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]notation.Pitch, len(s.pitches))
	copy(out, s.pitches)
	return out
}

// Len returns the number of sounding entries.
func (s *PitchSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pitches)
}

// Bottom returns the lowest pitch sounding on the given staff.
func (s *PitchSet) Bottom(clef notation.Clef) (notation.Pitch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.bottom[clef]
	return b, b != 0
}

// updateBottom rescans after a removal. Caller holds the write lock.
func (s *PitchSet) updateBottom() {
	s.bottom = [2]notation.Pitch{}
	for _, p := range s.pitches {
		clef := notation.ClefOf(p)
		if s.bottom[clef] == 0 {
			s.bottom[clef] = p
		}
	}
}
