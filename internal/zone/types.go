package zone

import "time"

// State is the occupancy snapshot for a single zone.
//
// The JSON field names match the wire contract used by presence sensors
// and dashboard clients.
type State struct {
	// Present indicates whether anyone is currently in the zone.
	Present bool `json:"present"`

	// People lists the identifiers of occupants currently in the zone.
	// Always non-nil; empty when the zone is vacant.
	People []string `json:"people"`

	// LastUpdate is when the zone last received a presence event.
	// Nil until the first event arrives after startup.
	LastUpdate *time.Time `json:"lastUpdate"`

	// Revision increases by one on every update to this zone. Used by
	// asynchronous consumers to discard stale snapshots. Not serialized.
	Revision uint64 `json:"-"`
}

// clone returns a deep copy of the state.
func (s State) clone() State {
	out := s
	out.People = make([]string, len(s.People))
	copy(out.People, s.People)
	if s.LastUpdate != nil {
		t := *s.LastUpdate
		out.LastUpdate = &t
	}
	return out
}

// Occupied reports whether the zone has confirmed occupants. Presence is
// only actionable when the occupant list is non-empty; a bare present flag
// with no people is treated as vacant.
func (s State) Occupied() bool {
	return s.Present && len(s.People) > 0
}
