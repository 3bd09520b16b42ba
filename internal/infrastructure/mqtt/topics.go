package mqtt

import (
	"fmt"
	"strings"
)

// Fixed topics of the presence/music contract. These match the payload
// producers (sensor apps) and consumers (music players) on the bus and
// must not change without coordinating both ends.
const (
	// TopicMusicControl carries music playback commands, tagged by zone.
	TopicMusicControl = "music/control"

	// TopicMusicPlaylist carries playlist updates, tagged by zone.
	TopicMusicPlaylist = "music/playlist"

	// TopicSystemStatus carries Core online/offline status (retained, LWT).
	TopicSystemStatus = "auralis/system/status"

	// topicPrefixPresence is the base for per-zone presence topics.
	topicPrefixPresence = "presence"
)

// Kind identifies the recognised inbound topic families. Topics are decoded
// once at the transport boundary; downstream components switch on Kind
// instead of re-parsing topic strings.
type Kind int

// Recognised topic kinds.
const (
	KindUnknown Kind = iota
	KindPresence
	KindMusicControl
	KindMusicPlaylist
)

// String returns a human-readable name for the topic kind.
func (k Kind) String() string {
	switch k {
	case KindPresence:
		return "presence"
	case KindMusicControl:
		return "music_control"
	case KindMusicPlaylist:
		return "music_playlist"
	default:
		return "unknown"
	}
}

// PresenceTopic returns the presence topic for a specific zone.
//
// Example: presence/zone1
func PresenceTopic(zoneID string) string {
	return fmt.Sprintf("%s/%s", topicPrefixPresence, zoneID)
}

// AllPresence returns a pattern matching presence updates for every zone.
//
// Pattern: presence/+
func AllPresence() string {
	return topicPrefixPresence + "/+"
}

// ParseTopic classifies an inbound topic and extracts the zone identifier
// for presence topics. For non-presence kinds the returned zone is empty;
// the zone lives in the payload for control and playlist messages.
//
// Unrecognised topics return KindUnknown. A bare "presence" topic or one
// with extra levels (presence/zone1/extra) is not a valid presence topic
// and is also reported as KindUnknown.
func ParseTopic(topic string) (Kind, string) {
	switch topic {
	case TopicMusicControl:
		return KindMusicControl, ""
	case TopicMusicPlaylist:
		return KindMusicPlaylist, ""
	}

	if rest, ok := strings.CutPrefix(topic, topicPrefixPresence+"/"); ok {
		if rest == "" || strings.Contains(rest, "/") {
			return KindUnknown, ""
		}
		return KindPresence, rest
	}

	return KindUnknown, ""
}
