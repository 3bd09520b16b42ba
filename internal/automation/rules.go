package automation

import (
	"github.com/auralis-home/auralis-core/internal/music"
	"github.com/auralis-home/auralis-core/internal/zone"
)

// DeriveCommand maps a zone's occupancy state to a music command.
//
// An occupied zone (present with at least one confirmed occupant) gets a
// play command carrying the occupant list; anything else gets a stop.
// A present flag with an empty occupant list is treated as vacant, so a
// flapping sensor without confirmed people never starts playback.
//
// Parameters:
//   - zoneID: The zone the state belongs to
//   - state: Current occupancy snapshot
//
// Returns:
//   - music.Command: Ready for the command router
func DeriveCommand(zoneID string, state zone.State) music.Command {
	if state.Occupied() {
		people := make([]string, len(state.People))
		copy(people, state.People)
		return music.Command{
			Zone:   zoneID,
			Action: music.ActionPlay,
			People: people,
		}
	}

	return music.Command{
		Zone:   zoneID,
		Action: music.ActionStop,
	}
}
