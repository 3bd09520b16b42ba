package presence

// Event is the payload published by presence sensors on presence/<zone>.
type Event struct {
	// Present indicates whether the sensor detects anyone in the zone.
	Present bool `json:"present"`

	// People lists the identified occupants. May be empty even when
	// Present is true (motion without identification).
	People []string `json:"people"`
}

// Events mirrored to WebSocket subscribers.
const (
	// EventMQTTMessage mirrors every subscribed broker message to all clients.
	EventMQTTMessage = "mqtt-message"

	// EventPresenceUpdate carries a zone's new occupancy state to its subscribers.
	EventPresenceUpdate = "presence-update"

	// EventMusicControl mirrors music commands to the target zone's subscribers.
	EventMusicControl = "music-control"

	// EventPlaylistUpdate mirrors playlist updates to the target zone's subscribers.
	EventPlaylistUpdate = "playlist-update"
)

// RawMessage is the shape broadcast for EventMQTTMessage.
type RawMessage struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
}
