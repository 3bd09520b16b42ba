package automation

import (
	"testing"

	"github.com/auralis-home/auralis-core/internal/music"
	"github.com/auralis-home/auralis-core/internal/zone"
)

func TestDeriveCommand(t *testing.T) {
	tests := []struct {
		name       string
		state      zone.State
		wantAction string
		wantPeople int
	}{
		{
			name:       "occupied zone plays",
			state:      zone.State{Present: true, People: []string{"alice", "bob"}},
			wantAction: music.ActionPlay,
			wantPeople: 2,
		},
		{
			name:       "single occupant plays",
			state:      zone.State{Present: true, People: []string{"alice"}},
			wantAction: music.ActionPlay,
			wantPeople: 1,
		},
		{
			name:       "vacant zone stops",
			state:      zone.State{Present: false, People: []string{}},
			wantAction: music.ActionStop,
		},
		{
			name:       "present without confirmed people stops",
			state:      zone.State{Present: true, People: []string{}},
			wantAction: music.ActionStop,
		},
		{
			name:       "absent with stale people stops",
			state:      zone.State{Present: false, People: []string{"alice"}},
			wantAction: music.ActionStop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := DeriveCommand("zone1", tt.state)

			if cmd.Zone != "zone1" {
				t.Errorf("Zone = %q, want zone1", cmd.Zone)
			}
			if cmd.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", cmd.Action, tt.wantAction)
			}
			if len(cmd.People) != tt.wantPeople {
				t.Errorf("People = %v, want %d entries", cmd.People, tt.wantPeople)
			}
		})
	}
}

func TestDeriveCommandCopiesPeople(t *testing.T) {
	state := zone.State{Present: true, People: []string{"alice"}}
	cmd := DeriveCommand("zone1", state)

	cmd.People[0] = "mallory"
	if state.People[0] != "alice" {
		t.Error("mutating the command leaked into the source state")
	}
}

func TestDeriveCommandDeterministic(t *testing.T) {
	state := zone.State{Present: true, People: []string{"alice"}}

	first := DeriveCommand("zone1", state)
	second := DeriveCommand("zone1", state)

	if first.Action != second.Action || first.Zone != second.Zone {
		t.Error("same state derived different commands")
	}
}
