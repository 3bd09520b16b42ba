package presence

import (
	"encoding/json"
	"fmt"

	"github.com/auralis-home/auralis-core/internal/automation"
	"github.com/auralis-home/auralis-core/internal/infrastructure/logging"
	"github.com/auralis-home/auralis-core/internal/infrastructure/mqtt"
	"github.com/auralis-home/auralis-core/internal/music"
	"github.com/auralis-home/auralis-core/internal/zone"
)

// Broadcaster is the fan-out surface the handler needs.
// Satisfied by *api.Hub.
type Broadcaster interface {
	// BroadcastAll sends an event to every connected client.
	BroadcastAll(event string, data any)

	// BroadcastZone sends an event to clients subscribed to the zone.
	BroadcastZone(zoneID, event string, data any)

	// BroadcastPresence sends a zone's occupancy state to its subscribers.
	// The revision lets the hub drop snapshots older than one already sent.
	BroadcastPresence(zoneID string, revision uint64, state zone.State)
}

// CommandSender dispatches derived music commands.
// Satisfied by *music.Router.
type CommandSender interface {
	SendControl(cmd music.Command, source string) error
}

// Handler consumes subscribed broker messages and drives the presence
// pipeline: store update, command derivation, fan-out.
type Handler struct {
	store  *zone.Store
	sender CommandSender
	hub    Broadcaster
	logger *logging.Logger
}

// NewHandler creates a presence handler.
func NewHandler(store *zone.Store, sender CommandSender, hub Broadcaster, logger *logging.Logger) *Handler {
	return &Handler{
		store:  store,
		sender: sender,
		hub:    hub,
		logger: logger,
	}
}

// HandleMessage processes one broker message. It matches
// mqtt.MessageHandler and is registered for all subscribed topics.
//
// Every message is mirrored to all WebSocket clients first, then routed
// by topic kind. Errors drop the single message; they never affect the
// subscription.
func (h *Handler) HandleMessage(topic string, payload []byte) error {
	// Mirror the raw message to every client, matching what the bus saw.
	h.hub.BroadcastAll(EventMQTTMessage, RawMessage{
		Topic:   topic,
		Message: string(payload),
	})

	kind, zoneID := mqtt.ParseTopic(topic)

	switch kind {
	case mqtt.KindPresence:
		return h.handlePresence(zoneID, payload)
	case mqtt.KindMusicControl:
		return h.mirrorToZone(EventMusicControl, payload)
	case mqtt.KindMusicPlaylist:
		return h.mirrorToZone(EventPlaylistUpdate, payload)
	default:
		return fmt.Errorf("unrecognised topic %q", topic)
	}
}

// handlePresence applies a presence event and derives the music command.
func (h *Handler) handlePresence(zoneID string, payload []byte) error {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decoding presence event for %s: %w", zoneID, err)
	}

	state, err := h.store.Update(zoneID, event.Present, event.People)
	if err != nil {
		return fmt.Errorf("updating zone %s: %w", zoneID, err)
	}

	h.logger.Debug("presence updated",
		"zone", zoneID,
		"present", state.Present,
		"people", len(state.People),
	)

	// Derive and dispatch the command before fanning out state, so a
	// subscriber that reacts to the update observes the command on the
	// bus no later than the state change.
	cmd := automation.DeriveCommand(zoneID, state)
	if err := h.sender.SendControl(cmd, music.SourceAutomation); err != nil {
		h.logger.Error("derived command dispatch failed",
			"zone", zoneID,
			"action", cmd.Action,
			"error", err,
		)
	}

	h.hub.BroadcastPresence(zoneID, state.Revision, state)

	return nil
}

// mirrorToZone relays a bus message to the subscribers of the zone named
// in its payload.
func (h *Handler) mirrorToZone(event string, payload []byte) error {
	var envelope struct {
		Zone string `json:"zone"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("decoding %s payload: %w", event, err)
	}
	if envelope.Zone == "" {
		return fmt.Errorf("%s payload has no zone", event)
	}

	h.hub.BroadcastZone(envelope.Zone, event, json.RawMessage(payload))
	return nil
}
