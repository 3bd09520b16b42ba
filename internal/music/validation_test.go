package music

import (
	"encoding/json"
	"errors"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr bool
	}{
		{
			name: "valid play",
			cmd:  Command{Zone: "zone1", Action: ActionPlay, People: []string{"alice"}},
		},
		{
			name: "valid stop",
			cmd:  Command{Zone: "zone1", Action: ActionStop},
		},
		{
			name: "valid with track and volume",
			cmd:  Command{Zone: "zone2", Action: ActionPlay, Track: "jazz-01", Volume: floatPtr(0.5)},
		},
		{
			name:    "missing zone",
			cmd:     Command{Action: ActionPlay},
			wantErr: true,
		},
		{
			name:    "missing action",
			cmd:     Command{Zone: "zone1"},
			wantErr: true,
		},
		{
			name:    "unknown action",
			cmd:     Command{Zone: "zone1", Action: "pause"},
			wantErr: true,
		},
		{
			name:    "volume too high",
			cmd:     Command{Zone: "zone1", Action: ActionPlay, Volume: floatPtr(1.5)},
			wantErr: true,
		},
		{
			name:    "volume negative",
			cmd:     Command{Zone: "zone1", Action: ActionPlay, Volume: floatPtr(-0.1)},
			wantErr: true,
		},
		{
			name: "volume at bounds",
			cmd:  Command{Zone: "zone1", Action: ActionPlay, Volume: floatPtr(1.0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommand(tt.cmd)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error %v should wrap ErrValidation", err)
			}
		})
	}
}

func TestValidatePlaylist(t *testing.T) {
	tests := []struct {
		name    string
		pu      PlaylistUpdate
		wantErr bool
	}{
		{
			name: "valid",
			pu:   PlaylistUpdate{Zone: "zone1", Playlist: json.RawMessage(`["track1","track2"]`)},
		},
		{
			name: "valid object playlist",
			pu:   PlaylistUpdate{Zone: "zone1", Playlist: json.RawMessage(`{"name":"morning","tracks":[]}`)},
		},
		{
			name:    "missing zone",
			pu:      PlaylistUpdate{Playlist: json.RawMessage(`[]`)},
			wantErr: true,
		},
		{
			name:    "missing playlist",
			pu:      PlaylistUpdate{Zone: "zone1"},
			wantErr: true,
		},
		{
			name:    "null playlist",
			pu:      PlaylistUpdate{Zone: "zone1", Playlist: json.RawMessage(`null`)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlaylist(tt.pu)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlaylist() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error %v should wrap ErrValidation", err)
			}
		})
	}
}
