package zone

import (
	"sync"
	"time"
)

// Store holds the current occupancy state for all configured zones.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
//   - A single RWMutex guards the whole map; updates are rare (sensor
//     cadence) and reads are cheap, so finer-grained locking is not needed.
type Store struct {
	mu     sync.RWMutex
	states map[string]*State

	// order preserves the configured zone order for stable listings.
	order []string

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewStore creates a store seeded with the configured zones, all vacant.
//
// Parameters:
//   - zoneIDs: Configured zone identifiers (e.g. from config.ZoneIDs())
func NewStore(zoneIDs []string) *Store {
	s := &Store{
		states: make(map[string]*State, len(zoneIDs)),
		order:  make([]string, 0, len(zoneIDs)),
		now:    time.Now,
	}
	for _, id := range zoneIDs {
		if _, exists := s.states[id]; exists {
			continue
		}
		s.states[id] = &State{People: []string{}}
		s.order = append(s.order, id)
	}
	return s
}

// Get returns a copy of the state for the specified zone.
//
// Returns:
//   - State: Deep copy of the zone's current state
//   - error: ErrZoneNotFound if the zone is not configured
func (s *Store) Get(zoneID string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[zoneID]
	if !ok {
		return State{}, ErrZoneNotFound
	}
	return st.clone(), nil
}

// Update applies a presence event to the specified zone.
//
// It replaces the occupant list, stamps the update time, and bumps the
// zone's revision. The returned copy reflects the state after the update
// and carries the new revision.
//
// Parameters:
//   - zoneID: Zone to update
//   - present: Whether the sensor reports the zone as occupied
//   - people: Occupant identifiers (nil is normalized to empty)
//
// Returns:
//   - State: Deep copy of the updated state
//   - error: ErrZoneNotFound if the zone is not configured
func (s *Store) Update(zoneID string, present bool, people []string) (State, error) {
	if zoneID == "" {
		return State{}, ErrInvalidZoneID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[zoneID]
	if !ok {
		return State{}, ErrZoneNotFound
	}

	now := s.now()
	st.Present = present
	st.People = make([]string, len(people))
	copy(st.People, people)
	st.LastUpdate = &now
	st.Revision++

	return st.clone(), nil
}

// List returns a copy of the state of every configured zone, keyed by
// zone identifier.
func (s *Store) List() map[string]State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]State, len(s.states))
	for id, st := range s.states {
		out[id] = st.clone()
	}
	return out
}

// Zones returns the configured zone identifiers in configuration order.
func (s *Store) Zones() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Has reports whether the zone is configured.
func (s *Store) Has(zoneID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.states[zoneID]
	return ok
}

// Count returns the number of configured zones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
