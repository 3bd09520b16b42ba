package music

import "encoding/json"

// Command actions understood by the players.
const (
	ActionPlay = "play"
	ActionStop = "stop"
)

// Command sources recorded in the audit trail.
const (
	SourceAutomation = "automation"
	SourceWebSocket  = "websocket"
	SourceAPI        = "api"
)

// Command is a music playback instruction for a single zone.
//
// The JSON field names are the wire contract on the music control topic;
// players and dashboards decode this shape.
type Command struct {
	// Zone the command targets. Required.
	Zone string `json:"zone"`

	// Action is "play" or "stop". Required.
	Action string `json:"action"`

	// Track optionally names a specific track or station to play.
	Track string `json:"track,omitempty"`

	// Volume optionally sets playback volume, 0.0 to 1.0.
	Volume *float64 `json:"volume,omitempty"`

	// People carries the occupants that triggered a derived play command.
	// Empty for stop commands and client-issued commands without context.
	People []string `json:"people,omitempty"`
}

// PlaylistUpdate replaces a zone's playlist.
//
// The playlist body is opaque to Core; it is validated for presence and
// relayed to the players untouched.
type PlaylistUpdate struct {
	// Zone the update targets. Required.
	Zone string `json:"zone"`

	// Playlist is the raw playlist document. Required, non-empty.
	Playlist json.RawMessage `json:"playlist"`
}
