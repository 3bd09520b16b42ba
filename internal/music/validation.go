package music

import (
	"bytes"
	"fmt"
)

// Volume bounds for validated commands.
const (
	minVolume = 0.0
	maxVolume = 1.0
)

// ValidateCommand checks a command against the wire contract.
//
// Rules:
//   - zone is required
//   - action is required and must be "play" or "stop"
//   - volume, when present, must be within [0.0, 1.0]
//
// Returns:
//   - error: wraps ErrValidation with the failing field, nil if valid
func ValidateCommand(cmd Command) error {
	if cmd.Zone == "" {
		return fmt.Errorf("%w: zone is required", ErrValidation)
	}
	if cmd.Action == "" {
		return fmt.Errorf("%w: action is required", ErrValidation)
	}
	if cmd.Action != ActionPlay && cmd.Action != ActionStop {
		return fmt.Errorf("%w: unknown action %q (must be %q or %q)",
			ErrValidation, cmd.Action, ActionPlay, ActionStop)
	}
	if cmd.Volume != nil && (*cmd.Volume < minVolume || *cmd.Volume > maxVolume) {
		return fmt.Errorf("%w: volume %v out of range [%v, %v]",
			ErrValidation, *cmd.Volume, minVolume, maxVolume)
	}
	return nil
}

// ValidatePlaylist checks a playlist update against the wire contract.
//
// Rules:
//   - zone is required
//   - playlist is required and must not be empty or JSON null
//
// Returns:
//   - error: wraps ErrValidation with the failing field, nil if valid
func ValidatePlaylist(pu PlaylistUpdate) error {
	if pu.Zone == "" {
		return fmt.Errorf("%w: zone is required", ErrValidation)
	}
	if len(pu.Playlist) == 0 || bytes.Equal(pu.Playlist, []byte("null")) {
		return fmt.Errorf("%w: playlist is required", ErrValidation)
	}
	return nil
}
